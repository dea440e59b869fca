package transfer

import "errors"

var (
	// ErrCopyFailure is an error that occurs when a file could not be copied,
	// e.g. due to permissions, a full disk or a disconnected device. The
	// source is preserved and the run continues.
	ErrCopyFailure = errors.New("copy failed")

	// ErrNotEnoughSpace is an error that occurs when there is not enough free
	// space to take the file on the destination.
	ErrNotEnoughSpace = errors.New("not enough free space on destination")

	// ErrRenameExists is an error that occurs when the intermediate file is to
	// be renamed to its final filename, but that final filename already exists
	// on the destination.
	ErrRenameExists = errors.New("rename destination already exists")

	// ErrVerificationMismatch is an error that occurs when the digest of the
	// written destination differs from the digest of the source. This usually
	// means that there are underlying transfer or hardware issues. The
	// destination is left in place for inspection.
	ErrVerificationMismatch = errors.New("verification mismatch")

	// ErrVerificationFailure is an error that occurs when the written
	// destination could not be read back for verification.
	ErrVerificationFailure = errors.New("verification failed")

	// ErrDeleteFailure is an error that occurs when the source of a verified
	// move could not be removed. The file itself was transferred successfully.
	ErrDeleteFailure = errors.New("source deletion failed")

	// ErrInvalidConfig is an error that occurs when an [Engine] is constructed
	// with an unusable [Config].
	ErrInvalidConfig = errors.New("invalid transfer configuration")
)
