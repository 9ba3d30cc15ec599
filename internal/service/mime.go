package service

// Явная таблица расширение→MIME; заголовок клиента используется только
// как запасной вариант для неизвестных расширений
var mimeByExtension = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".txt":  "text/plain",
	".zip":  "application/zip",
	".rar":  "application/x-rar-compressed",
	".7z":   "application/x-7z-compressed",
}

func mimeTypeFor(extension, fallback string) string {
	if mime, ok := mimeByExtension[extension]; ok {
		return mime
	}
	if fallback != "" {
		return fallback
	}
	return "application/octet-stream"
}
