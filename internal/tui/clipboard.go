package tui

import (
	"strings"

	"github.com/atotto/clipboard"
)

// copyToClipboard writes s to the system clipboard (pbcopy, clip, xclip/xsel or
// wl-copy, whichever the platform provides).
func copyToClipboard(s string) error {
	if clipboard.Unsupported {
		return errClipboardUnsupported
	}
	return clipboard.WriteAll(strings.ReplaceAll(s, "\r\n", "\n"))
}
