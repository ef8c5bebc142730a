package botnotify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSendError(t *testing.T) {
	t.Run(`payload check`, func(t *testing.T) {
		var got ErrorEvent
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		event := ErrorEvent{Code: 502, Method: "GET", Path: "/interview/:id/report", Error: "ошибка"}
		require.NoError(t, New(srv.URL).SendError(event))
		require.Equal(t, event, got)
	})

	t.Run(`disabled check`, func(t *testing.T) {
		require.False(t, New("").Enabled())
		require.NoError(t, New("").SendError(ErrorEvent{Code: 500}))
	})

	t.Run(`bad status check`, func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()
		require.Error(t, New(srv.URL).SendError(ErrorEvent{Code: 500}))
	})
}
