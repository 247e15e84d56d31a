package viewer

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	tea "charm.land/bubbletea/v2"
)

// ImageLoadedMsg reports the result of decoding a viewer image.
type ImageLoadedMsg struct {
	Owner string
	Path  string
	Image image.Image
	Err   error
}

// LoadImage returns a command that decodes the image at path off the update
// loop. An empty path yields a message with neither image nor error.
func LoadImage(owner, path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return ImageLoadedMsg{Owner: owner}
		}
		img, err := decodeImage(path)
		return ImageLoadedMsg{Owner: owner, Path: path, Image: img, Err: err}
	}
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}
