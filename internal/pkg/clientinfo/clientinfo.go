// Package clientinfo извлекает IP и user agent клиента для журнала активности.
// Когда определить значение не удаётся, возвращается sentinel "Unknown" -
// слой журналирования нормализует его в NULL перед записью.
package clientinfo

import (
	"net"
	"net/http"
	"strings"
)

const Unknown = "Unknown"

func IP(r *http.Request) string {
	// За reverse proxy реальный адрес приходит в заголовках
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// Первый адрес в списке - исходный клиент
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return Unknown
	}

	return host
}

func UserAgent(r *http.Request) string {
	if ua := r.UserAgent(); ua != "" {
		return ua
	}
	return Unknown
}
