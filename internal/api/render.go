package api

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/blumlaut/fxfurtrack/internal/preview"
)

// previewTemplate is the page handed to link unfurlers. Human visitors are
// bounced to the real site by the onload script.
var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>FurTrack</title>
<meta name="theme-color" content="#48166a">
{{- range .Metadata}}
<meta property="{{.Key}}" content="{{.Value}}">
{{- end}}
{{- range .Twitter}}
<meta name="{{.Key}}" content="{{.Value}}">
{{- end}}
<script>window.onload = function () { window.location.href = {{.URL}}; };</script>
</head>
<body></body>
</html>
`))

func renderPreview(w http.ResponseWriter, logger *zap.Logger, res preview.Result) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := previewTemplate.Execute(w, res); err != nil {
		logger.Error("render preview failed", zap.Error(err))
	}
}
