package detector

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"skywatch/internal/models"
)

const remoteReadTimeout = 5 * time.Second

// Remote sends frames to a detection server over a websocket and
// draws the returned boxes locally. One frame out, one result message
// back; the capture loop is the only caller, so calls are serialized
// already. A broken connection fails the current inference and is
// redialed on the next one.
type Remote struct {
	serverURL string
	log       zerolog.Logger
	conn      *websocket.Conn
}

func NewRemote(host string, log zerolog.Logger) *Remote {
	u := url.URL{Scheme: "ws", Host: host, Path: "/ws"}
	return &Remote{serverURL: u.String(), log: log}
}

func (d *Remote) Close() {
	if d.conn != nil {
		d.conn.Close()
		d.conn = nil
	}
}

func (d *Remote) Infer(frame image.Image) (image.Image, error) {
	if err := d.ensureConn(); err != nil {
		return nil, &InferenceError{Err: err}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, nil); err != nil {
		return nil, &InferenceError{Err: err}
	}

	if err := d.conn.WriteMessage(websocket.BinaryMessage, buf.Bytes()); err != nil {
		d.Close()
		return nil, &InferenceError{Err: err}
	}

	d.conn.SetReadDeadline(time.Now().Add(remoteReadTimeout))
	_, message, err := d.conn.ReadMessage()
	if err != nil {
		d.Close()
		return nil, &InferenceError{Err: err}
	}

	var results []models.DetectionResult
	if err := json.Unmarshal(message, &results); err != nil {
		return nil, &InferenceError{Err: err}
	}

	return annotate(frame, results), nil
}

func (d *Remote) ensureConn() error {
	if d.conn != nil {
		return nil
	}

	d.log.Info().Str("url", d.serverURL).Msg("dialing detection server")
	conn, _, err := websocket.DefaultDialer.Dial(d.serverURL, nil)
	if err != nil {
		return err
	}
	d.conn = conn
	return nil
}

// annotate burns the server's detections into a copy of the frame.
// Box coordinates arrive normalized as [y1, x1, y2, x2].
func annotate(frame image.Image, results []models.DetectionResult) image.Image {
	bounds := frame.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, frame, bounds.Min, draw.Src)

	w := float32(bounds.Dx())
	h := float32(bounds.Dy())

	for _, res := range results {
		if len(res.Box) != 4 {
			continue
		}
		box := models.Box{
			Y1: bounds.Min.Y + int(res.Box[0]*h),
			X1: bounds.Min.X + int(res.Box[1]*w),
			Y2: bounds.Min.Y + int(res.Box[2]*h),
			X2: bounds.Min.X + int(res.Box[3]*w),
		}
		drawRect(out, box, boxColor)
		drawLabel(out, box.X1+2, box.Y1-4, res.Label, boxColor)
	}
	return out
}

func drawRect(img *image.RGBA, box models.Box, col color.Color) {
	const thickness = 3
	bounds := img.Bounds()

	setPixel := func(x, y int) {
		if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			img.Set(x, y, col)
		}
	}

	for t := 0; t < thickness; t++ {
		for x := box.X1; x <= box.X2; x++ {
			setPixel(x, box.Y1+t)
			setPixel(x, box.Y2-t)
		}
		for y := box.Y1; y <= box.Y2; y++ {
			setPixel(box.X1+t, y)
			setPixel(box.X2-t, y)
		}
	}
}

func drawLabel(img *image.RGBA, x, y int, text string, col color.Color) {
	if text == "" {
		return
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
