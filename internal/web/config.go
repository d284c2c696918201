package web

import (
	"net/http"

	"go.uber.org/zap"
)

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	data, err := s.cfg.Marshal()
	if err != nil {
		s.logger.Error("marshal config", zap.Error(err))
		http.Error(w, "could not render config", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(data)
}
