// Command stickersheet extracts individual sticker images from photographed
// sticker sheets bordered by four fiducial markers.
package main

import (
	"os"

	"github.com/sticker-labs/stickersheet/pkg/cli"
)

func main() {
	os.Exit(cli.Run(os.Args))
}
