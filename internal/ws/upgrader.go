package ws

import (
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/gorilla/websocket"
)

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// Для разработки разрешаем все
		if os.Getenv("ENVIRONMENT") == "development" {
			return true
		}

		allowedOrigins := strings.Split(os.Getenv("WS_ALLOWED_ORIGINS"), ",")

		return slices.Contains(allowedOrigins, origin)
	},
}
