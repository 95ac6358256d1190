package media

import "time"

type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type Presigned struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"uploadUrl"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
