package hashutil

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
)

// MD5 считает дайджест потока и возвращает его hex-строкой в нижнем регистре.
// Используется для идентификации содержимого, не для защиты от подмены.
func MD5(r io.Reader) (string, error) {
	h := md5.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to hash content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
