package cli

import (
	"fmt"
	"os"

	"github.com/grovetools/notesync/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
	}
}

// Handle provides user-friendly error messages based on error type
func (h *ErrorHandler) Handle(err error) error {
	switch errors.GetCode(err) {
	case errors.ErrCodeGitNotInstalled:
		fmt.Fprintf(os.Stderr, "❌ Git is not installed or not on PATH. Install git to use notesync.\n")
		return err

	case errors.ErrCodeNotARepository:
		if syncErr, ok := err.(*errors.SyncError); ok {
			fmt.Fprintf(os.Stderr, "❌ '%s' is not a git repository\n", syncErr.Details["path"])
		} else {
			fmt.Fprintf(os.Stderr, "❌ The notebook is not a git repository\n")
		}
		fmt.Fprintf(os.Stderr, "Run 'notesync init' to initialize one.\n")
		return err

	case errors.ErrCodeRemoteNotFound:
		if syncErr, ok := err.(*errors.SyncError); ok {
			fmt.Fprintf(os.Stderr, "❌ Remote '%s' not found\n", syncErr.Details["remote"])
		} else {
			fmt.Fprintf(os.Stderr, "❌ Remote not found\n")
		}
		fmt.Fprintf(os.Stderr, "Run 'notesync remote add <name> <url>' to configure one.\n")
		return err

	case errors.ErrCodeInvalidURL:
		fmt.Fprintf(os.Stderr, "❌ The remote URL is empty or invalid.\n")
		return err

	case errors.ErrCodeNothingToPush:
		fmt.Fprintf(os.Stderr, "Nothing to push: the remote already has every local commit.\n")
		return err

	case errors.ErrCodeOperationInProgress:
		if syncErr, ok := err.(*errors.SyncError); ok {
			fmt.Fprintf(os.Stderr, "❌ A %s operation is already running. Wait for it to finish.\n", syncErr.Details["operation"])
		} else {
			fmt.Fprintf(os.Stderr, "❌ Another sync operation is already running.\n")
		}
		return err

	case errors.ErrCodeNetworkOrAuth:
		fmt.Fprintf(os.Stderr, "❌ Could not reach the remote: %v\n", err)
		fmt.Fprintf(os.Stderr, "Check your network connection and repository access.\n")
		return err

	default:
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)

		if h.Verbose {
			if syncErr, ok := err.(*errors.SyncError); ok {
				fmt.Fprintf(os.Stderr, "\nError details:\n%s\n", syncErr.ToJSON())
			}
		}
		return err
	}
}
