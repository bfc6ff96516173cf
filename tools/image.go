package tools

import (
	"context"
	"encoding/base64"
	"errors"
	"io/fs"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/priyank1574q/agent-vinod/agent"
	"github.com/priyank1574q/agent-vinod/toolerr"
)

const readImageDesc = `Reads an image file, encodes it to a Base64 data URI, and loads it into memory.
This prepares the image to be sent to a vision model.`

// imageFormats maps the sniffed MIME types a data URI may carry to their
// format name. Other image types are sent as png.
var imageFormats = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// ReadImageArgs are the arguments of read_image.
type ReadImageArgs struct {
	FilePath string `json:"file_path" jsonschema:"required" jsonschema_description:"Path of the image on disk."`
}

func (k *Toolkit) readImage(ctx context.Context, _ *agent.State, args ReadImageArgs) (*agent.Command, error) {
	if err := requirePath(args.FilePath); err != nil {
		return nil, err
	}
	fsys := k.store.FS()
	if _, err := fsys.Stat(ctx, args.FilePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, toolerr.Wrap(toolerr.KindNotFound, err, "File not found at '%s'.", args.FilePath)
		}
		return nil, toolerr.Wrap(toolerr.KindIO, err, "could not read image file: %v", err)
	}
	data, err := fsys.ReadBytes(ctx, args.FilePath)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.KindIO, err, "could not read image file: %v", err)
	}

	uri, err := dataURI(data)
	if err != nil {
		return nil, err
	}
	cmd := reply("Successfully loaded image '" + args.FilePath + "' into memory. It is now ready for analysis.")
	cmd.Images = map[string]string{args.FilePath: uri}
	return cmd, nil
}

func dataURI(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	name := mt.String()
	if i := strings.IndexByte(name, ';'); i >= 0 {
		name = name[:i]
	}
	format, ok := imageFormats[name]
	if !ok {
		if !strings.HasPrefix(name, "image/") {
			return "", toolerr.New(toolerr.KindInvalidRequest, "could not read image file: content is %s, not an image", name)
		}
		format = "png"
	}
	return "data:image/" + format + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
