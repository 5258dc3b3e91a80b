package errors

import "fmt"

// Wrap adds context to errors at package boundaries.
// It returns nil if err is nil, allowing for safe inline usage:
//
//	return errors.Wrap(err, "failed to read config")
//
// The original chain is preserved, so callers can still match sentinels:
//
//	if errors.Is(err, errors.ErrConfigLoad) {
//	    os.Exit(constants.ExitConfigLoad)
//	}
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf adds formatted context to errors at package boundaries.
// It returns nil if err is nil.
//
//	return errors.Wrapf(err, "failed to stage %s", path)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Join returns an error that matches both the sentinel kind and the
// underlying cause with errors.Is, formatted as "cause: kind".
func Join(kind, cause error) error {
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", cause, kind)
}
