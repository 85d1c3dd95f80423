package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/algoviz/internal/metrics"
)

// maxSortBodyBytes bounds the request body independently of the element cap
// so a huge payload is rejected before it is fully decoded.
const maxSortBodyBytes = 1 << 20

// checkPrime handles GET /api/prime/check?n=. It returns the traced verdict or
// 400 when n is missing or not a signed 64-bit integer.
func (s *Server) checkPrime(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("n"))
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter n")
		return
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "n must be an integer")
		return
	}

	res := s.checker.Check(r.Context(), n)
	metrics.ObservePrimeCheck(res.IsPrime, res.Truncated())
	metrics.ObserveTraceSteps(metrics.AlgorithmPrime, len(res.Steps))
	if res.Truncated() {
		s.logger.Debug("prime trace truncated",
			zap.Int64("number", n),
			zap.String("request_id", RequestID(r.Context())),
		)
	}
	writeJSON(w, http.StatusOK, res)
}

// bubbleSort handles POST /api/sort/bubble with a JSON array of integers. It
// returns 400 for anything else and 413 when the array or body is too large.
func (s *Server) bubbleSort(w http.ResponseWriter, r *http.Request) {
	values, status, err := s.decodeIntArray(w, r)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	res := s.sorter.Sort(r.Context(), values)
	metrics.ObserveTraceSteps(metrics.AlgorithmBubbleSort, len(res.Steps))
	writeJSON(w, http.StatusOK, res)
}

var errNotIntArray = errors.New("request body must be a JSON array of integers")

func (s *Server) decodeIntArray(w http.ResponseWriter, r *http.Request) ([]int, int, error) {
	body := http.MaxBytesReader(w, r.Body, maxSortBodyBytes)
	dec := json.NewDecoder(body)

	var values []int
	if err := dec.Decode(&values); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, errors.New("request body too large")
		}
		return nil, http.StatusBadRequest, errNotIntArray
	}
	if values == nil {
		return nil, http.StatusBadRequest, errNotIntArray
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, http.StatusBadRequest, errNotIntArray
	}
	if limit := s.cfg.Sort.MaxElements; limit > 0 && len(values) > limit {
		return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("at most %d elements allowed", limit)
	}
	return values, http.StatusOK, nil
}
