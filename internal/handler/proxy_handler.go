/*
Package handler provides the health endpoint and the upstream proxy
handlers.

The two proxies fail differently on purpose: chat fails loud with a 500 and
a fallback flag (there is no safe universal chat answer), weather fails
quiet with a 200 demo snapshot (there is one). Do not unify them.
*/
package handler

import (
	"net/http"
	"time"

	"agrow/internal/app/chat"
	"agrow/internal/app/weather"
	"agrow/internal/pkg/logx"
	"agrow/internal/pkg/req"
	"agrow/internal/pkg/resp"
)

// HandleHealth answers the liveness probe. No dependency checks: the probe
// reports that the gateway process is up, nothing more.
func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.JSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

type ChatInput struct {
	Messages []chat.Turn `json:"messages"`
	Model    string      `json:"model,omitempty"`
}

// HandleChatProxy forwards the conversation to the completion provider and
// passes the payload through unmodified. Any failure, including a missing
// credential, becomes a 500 with fallback:true so callers synthesize a
// local reply instead of retrying.
func HandleChatProxy(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input ChatInput
		if err := req.BindJSON(r, &input); err != nil {
			resp.BadRequest(w, err.Error())
			return
		}

		payload, err := deps.Upstream.SendChatCompletion(r.Context(), input.Messages, input.Model)
		if err != nil {
			logx.Error(err, "chat completion failed", "turns", len(input.Messages))
			resp.ChatFallback(w, err)
			return
		}

		resp.Raw(w, http.StatusOK, payload)
	}
}

// HandleWeatherProxy fetches and normalizes the current weather. It never
// answers an error status: any failure, from a missing credential to a
// malformed upstream payload, degrades to the fixed demo snapshot with 200.
func HandleWeatherProxy(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lat := r.URL.Query().Get("lat")
		lon := r.URL.Query().Get("lon")

		payload, err := deps.Upstream.FetchWeather(r.Context(), lat, lon)
		if err != nil {
			logx.Warn("weather fetch degraded to demo snapshot", "error", err.Error())
			resp.JSON(w, http.StatusOK, weather.Demo())
			return
		}

		snapshot, err := weather.Normalize(payload, lat, lon)
		if err != nil {
			logx.Warn("weather payload unusable, serving demo snapshot", "error", err.Error())
			resp.JSON(w, http.StatusOK, weather.Demo())
			return
		}

		resp.JSON(w, http.StatusOK, snapshot)
	}
}
