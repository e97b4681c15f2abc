package tika

import (
	"net/http"
)

var SupportedExtensions = []string{
	".pdf",

	".doc", ".docx",
	".odt", ".rtf",
	".epub",
}

var SupportedMimeTypes = []string{
	"application/pdf",

	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",

	"application/vnd.oasis.opendocument.text",
	"application/rtf",
	"application/epub+zip",
}

type Option func(*Client)

func WithClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}
