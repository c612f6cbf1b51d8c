package server

const (
	FormParamFile               = "file"
	FormParamStoragePath        = "storagePath"
	FormParamDirName            = "dirName"
	FormParamOldDirName         = "oldDirName"
	FormParamNewDirName         = "newDirName"
	FormParamDestinationDirName = "destinationDirName"
	FormParamSourceDirName      = "sourceDirName"
	FormParamFileName           = "fileName"
	FormParamFileNames          = "fileNames"
	FormParamSourceFileName     = "sourceFileName"
	FormParamFilePath           = "filePath"
	FormParamFilePaths          = "filePaths"
	FormParamOldFileName        = "oldFileName"
	FormParamNewFileName        = "newFileName"
	HeaderContentDisposition    = "Content-Disposition"
	HeaderContentType           = "Content-Type"
	HeaderContentLength         = "Content-Length"
	HeaderRequestID             = "X-Request-ID"
	DispositionAttachment       = "attachment"
	RouteUnmatched              = "unmatched"
	multipartMemory             = 32 << 20
)
