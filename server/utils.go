package server

import (
	"net/http"
	"net/url"

	log "github.com/sirupsen/logrus"

	"faithfeed/utils"
)

func sendError(w http.ResponseWriter, errorCode int, message string) {
	log.Info(message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errorCode)
	resp := map[string]string{
		"error": message,
	}
	jsonResp := utils.ToJson(resp)
	w.Write(jsonResp)
}

func getQueryItem(values url.Values, key string) string {
	value := values[key]
	if len(value) == 1 {
		return value[0]
	}
	return ""
}
