package clip

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// portableAccessor uses github.com/atotto/clipboard, which handles the
// per-platform plumbing itself (and shells out to xclip/xsel on Linux).
// Unlike the exec backend it applies no timeout of its own.
type portableAccessor struct{}

func (portableAccessor) Name() string { return "portable" }

func (portableAccessor) Read() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("clipboard read: %w", err)
	}
	return text, nil
}

func (portableAccessor) Write(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}
	return nil
}
