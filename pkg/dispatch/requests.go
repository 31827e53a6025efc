package dispatch

import (
	v "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/entrhq/wingman/pkg/screenshot"
)

// PathBody carries a screenshot or audio path chosen by the UI.
type PathBody struct {
	Path string `json:"path"`
}

func (b PathBody) Validate() error {
	return v.ValidateStruct(&b,
		v.Field(&b.Path, v.Required),
	)
}

// DimensionsBody carries the UI's content size. Zero values mean "unknown".
type DimensionsBody struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ViewBody selects the active view.
type ViewBody struct {
	View string `json:"view"`
}

func (b ViewBody) Validate() error {
	return v.ValidateStruct(&b,
		v.Field(&b.View, v.Required, v.By(func(value interface{}) error {
			s, _ := value.(string)
			if _, err := screenshot.ParseView(s); err != nil {
				return v.NewError("validation_view", "must be queue or solutions")
			}
			return nil
		})),
	)
}

// AudioBody carries base64 audio recorded by the UI.
type AudioBody struct {
	Data     string `json:"data"`
	MimeType string `json:"mime_type"`
}

func (b AudioBody) Validate() error {
	return v.ValidateStruct(&b,
		v.Field(&b.Data, v.Required),
		v.Field(&b.MimeType, v.Required),
	)
}

// ViewResponse reports the active view.
type ViewResponse struct {
	View string `json:"view"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
