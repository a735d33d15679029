package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/GoArmGo/DailyTrack/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxBodyBytes ограничивает размер тела запроса.
const maxBodyBytes = 1 << 20

func pathUsername(r *http.Request) string {
	return chi.URLParam(r, "username")
}

func pathID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.InvalidArgument(domain.RuleBadParameter, "Invalid id: '%s'", raw)
	}
	return id, nil
}

// queryDate разбирает необязательный параметр-дату. Отсутствующий параметр — nil.
func queryDate(r *http.Request, name string) (*domain.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, domain.InvalidArgument(domain.RuleBadParameter,
			"Invalid value for parameter '%s': expected YYYY-MM-DD", name)
	}
	return &d, nil
}

// requiredRange читает startDate и endDate; отсутствующая граница остаётся нулевой датой
// и отклоняется проверкой диапазона.
func requiredRange(r *http.Request) (start, end domain.Date, err error) {
	s, e, err := optionalRange(r)
	if err != nil {
		return start, end, err
	}
	if s != nil {
		start = *s
	}
	if e != nil {
		end = *e
	}
	return start, end, nil
}

// optionalRange читает необязательные startDate и endDate.
func optionalRange(r *http.Request) (start, end *domain.Date, err error) {
	if start, err = queryDate(r, "startDate"); err != nil {
		return nil, nil, err
	}
	if end, err = queryDate(r, "endDate"); err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.InvalidArgument(domain.RuleBadParameter,
			"Invalid value for parameter '%s': expected an integer", name)
	}
	return &v, nil
}

func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, domain.InvalidArgument(domain.RuleBadParameter,
			"Invalid value for parameter '%s': expected true or false", name)
	}
	return v, nil
}

// decodeJSON читает тело запроса в dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.InvalidArgument(domain.RuleBadParameter, "Request body is required")
		}
		return domain.InvalidArgument(domain.RuleBadParameter, "Malformed request body: %v", err)
	}
	return nil
}
