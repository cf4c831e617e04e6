// Package datauri encodes raw file content as RFC 2397 data URIs and decodes them back.
package datauri

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	scheme       = "data:"
	base64Suffix = ";base64"
	defaultMIME  = "text/plain"
)

var (
	ErrNotDataURI   = errors.New("datauri: missing data: scheme")
	ErrMissingComma = errors.New("datauri: missing comma separator")
)

// Encode returns data as a base64 data URI whose media type is sniffed from the content.
func Encode(data []byte) string {
	return EncodeWithType(DetectType(data), data)
}

// EncodeWithType returns data as a base64 data URI with the given media type.
func EncodeWithType(mediaType string, data []byte) string {
	var b strings.Builder
	b.Grow(len(scheme) + len(mediaType) + len(base64Suffix) + 1 + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString(scheme)
	b.WriteString(mediaType)
	b.WriteString(base64Suffix)
	b.WriteByte(',')
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// DetectType sniffs the media type of data. Parameters are kept without spaces so
// the value can sit inside a data URI header.
func DetectType(data []byte) string {
	return strings.ReplaceAll(mimetype.Detect(data).String(), " ", "")
}

// Decode splits a data URI into its media type (parameters stripped) and payload.
func Decode(uri string) (string, []byte, error) {
	if !strings.HasPrefix(uri, scheme) {
		return "", nil, ErrNotDataURI
	}

	header, payload, found := strings.Cut(uri[len(scheme):], ",")
	if !found {
		return "", nil, ErrMissingComma
	}

	isBase64 := strings.HasSuffix(header, base64Suffix)
	if isBase64 {
		header = strings.TrimSuffix(header, base64Suffix)
	}

	mediaType, _, _ := strings.Cut(header, ";")
	if mediaType == "" {
		mediaType = defaultMIME
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, err
		}
		return mediaType, data, nil
	}

	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, err
	}
	return mediaType, []byte(unescaped), nil
}
