package domain

const (
	PathEmpty          = ""
	PathCurrent        = "."
	PathParent         = ".."
	ExtensionSeparator = "."
	ArchiveName        = "files.zip"
	MIMEOctetStream    = "application/octet-stream"
	MIMEZip            = "application/zip"
	MIMEJSON           = "application/json"
	MIMEText           = "text/plain; charset=utf-8"
)
