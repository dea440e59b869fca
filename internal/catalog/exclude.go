package catalog

// DefaultExcludeNames are camera housekeeping files and operating system
// artifacts commonly found on memory cards. They are never offloaded.
//
//nolint:gochecknoglobals
var DefaultExcludeNames = []string{
	"MEDIAPRO.XML", "Icon", "Icon?", "Icon\r", "Icon\r.",
	"STATUS.BIN", "SONYCARD.IND", "AVIN0001.INP", "AVIN0001.BNP", "AVIN0001.INT",
	"MOVIEOBJ.BDM", "PRV00001.BIN", "INDEX.BDM",
	"fseventsd-uuid", "fseventsd-uuid.", ".dropbox.device",
	"mdb.bk", "mdb.db", "Get_started_with_GoPro.url",
	".Spotlight-V100", "VolumeConfiguration.plist", "psid.db", ".DS_Store",
	"indexState", "0.indexHead", "0.indexGroups", "0.shadowIndexHead", "0.shadowIndexGroups",
	"live.0.indexPostings", "live.0.indexIds", "live.0.indexBigDates", "live.0.indexGroups",
	"live.0.indexPositions", "live.0.indexDirectory", "live.0.indexCompactDirectory",
	"live.0.indexArrays", "live.0.shadowIndexHead", "live.0.directoryStoreFile",
	"live.0.directoryStoreFile.shadow", "live.0.shadowIndexGroups", "live.0.indexHead",
	"live.1.indexHead", "live.1.indexIds", "live.1.indexUpdates", "live.1.indexBigDates",
	"live.1.indexGroups", "live.1.indexPostings", "live.1.indexTermIds", "live.1.indexDirectory",
	"live.1.indexCompactDirectory", "live.1.indexArrays", "live.1.directoryStoreFile",
	"live.1.shadowIndexHead", "live.1.shadowIndexTermIds", "live.1.shadowIndexArrays",
	"live.1.shadowIndexCompactDirectory", "live.1.shadowIndexDirectory",
	"live.1.directoryStoreFile.shadow", "live.1.shadowIndexGroups",
	"live.2.indexHead", "live.2.indexIds", "live.2.indexBigDates", "live.2.indexGroups",
	"live.2.indexPostings", "live.2.indexTermIds", "live.2.indexPositions",
	"live.2.indexPositionTable", "live.2.indexDirectory", "live.2.indexCompactDirectory",
	"live.2.indexArrays", "live.2.indexUpdates", "live.2.directoryStoreFile",
	"live.2.shadowIndexHead", "live.2.shadowIndexTermIds", "live.2.shadowIndexPositionTable",
	"live.2.shadowIndexArrays", "live.2.shadowIndexCompactDirectory",
	"live.2.shadowIndexDirectory", "live.2.directoryStoreFile.shadow", "live.2.shadowIndexGroups",
	"store.db", ".store.db", "store.updates", "store_generation.", "store_generation.\r",
	"reverseDirectoryStore", "reverseDirectoryStore.shadow", "reverseStore.updates",
	"tmp.spotlight.state", "tmp.spotlight.loc", "shutdown_time", "permStore",
	"journal.412", "retire.411",
}
