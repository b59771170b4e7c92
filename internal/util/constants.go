package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"

	// FileStampFormat 生成文件名里的时间戳
	FileStampFormat = "20060102_150405"
	FileDateFormat  = "20060102"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeText     = "text/plain; charset=utf-8"
	MimeHTML     = "text/html; charset=utf-8"
	MimeMarkdown = "text/markdown; charset=utf-8"
)

// 生成结果的来源
const (
	SourceBackend  = "backend"
	SourceAI       = "ai"
	SourceLocal    = "local"
	SourceFallback = "fallback"
	SourceCache    = "cache"
)
