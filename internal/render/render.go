package render

import (
	"fmt"
	"io"

	"github.com/spigell/gitrecruiter/internal/failure"
	"github.com/spigell/gitrecruiter/internal/session"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Write renders snap in the requested format. An empty format means text.
func Write(w io.Writer, format string, snap session.Snapshot) error {
	switch format {
	case "", FormatText:
		return Text(w, snap)
	case FormatJSON:
		return JSON(w, snap)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func reportError(err error) *ReportError {
	if err == nil {
		return nil
	}
	return &ReportError{Kind: string(failure.KindOf(err)), Message: err.Error()}
}
