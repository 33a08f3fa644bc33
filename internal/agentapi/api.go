// Package agentapi exposes the locale operations over a local HTTP API,
// meant to sit on a unix socket where a configuration-management agent
// can reach it.
package agentapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"github.com/gobwas/glob"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"

	"github.com/hostconf/locale-agent/internal/facts"
	"github.com/hostconf/locale-agent/internal/locale"
	"github.com/hostconf/locale-agent/internal/prometheus"
	"github.com/hostconf/locale-agent/internal/system"
)

type API struct {
	manager *locale.Manager
	facts   *facts.Facts

	logger *logrus.Logger
	router *httprouter.Router
}

type ctxKey string

const operationIDKey ctxKey = "operationID"

func New(manager *locale.Manager, f *facts.Facts, logger *logrus.Logger) *API {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	api := &API{
		manager: manager,
		facts:   f,
		logger:  logger,
	}

	api.router = httprouter.New()
	api.router.RedirectTrailingSlash = false
	api.router.RedirectFixedPath = false
	api.router.MethodNotAllowed = http.HandlerFunc(methodNotAllowedHandler)
	api.router.NotFound = http.HandlerFunc(notFoundHandler)

	api.router.GET("/api/status", api.statusHandler)

	api.router.GET("/api/v0/locales/list", api.listHandler)
	api.router.GET("/api/v0/locales/current", api.currentHandler)
	api.router.POST("/api/v0/locales/current", api.setCurrentHandler)
	api.router.GET("/api/v0/locales/avail/:locale", api.availHandler)
	api.router.POST("/api/v0/locales/generate", api.generateHandler)

	api.router.Handler("GET", "/metrics", promhttp.Handler())

	return api
}

func (api *API) Serve(listener net.Listener) error {
	server := http.Server{Handler: api}

	err := server.Serve(listener)
	if err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (api *API) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	// Tag the request with a time-sortable operation ID so all log
	// lines it produces can be correlated.
	ctx := context.WithValue(request.Context(), operationIDKey, ksuid.New().String())
	request = request.WithContext(ctx)

	prometheus.TotalRequests.Inc()
	api.log(request).Debugf("%s %s", request.Method, request.URL.Path)

	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	api.router.ServeHTTP(writer, request)
}

func (api *API) log(request *http.Request) *logrus.Entry {
	entry := logrus.NewEntry(api.logger)
	if oid, ok := request.Context().Value(operationIDKey).(string); ok {
		entry = entry.WithField("operation_id", oid)
	}
	return entry
}

func methodNotAllowedHandler(writer http.ResponseWriter, request *http.Request) {
	writer.WriteHeader(http.StatusMethodNotAllowed)
}

func notFoundHandler(writer http.ResponseWriter, request *http.Request) {
	writer.WriteHeader(http.StatusNotFound)
}

func statusResponseOK(writer http.ResponseWriter) {
	type reply struct {
		Status bool `json:"status"`
	}

	writer.WriteHeader(http.StatusOK)
	json.NewEncoder(writer).Encode(reply{true})
}

type responseError struct {
	Code int    `json:"code,omitempty"`
	ID   string `json:"id"`
	Msg  string `json:"msg"`
}

func statusResponseError(writer http.ResponseWriter, code int, errors ...responseError) {
	type reply struct {
		Status bool            `json:"status"`
		Errors []responseError `json:"errors,omitempty"`
	}

	writer.WriteHeader(code)
	json.NewEncoder(writer).Encode(reply{false, errors})
}

func (api *API) statusHandler(writer http.ResponseWriter, request *http.Request, _ httprouter.Params) {
	type reply struct {
		API           uint     `json:"api"`
		Backend       string   `json:"backend"`
		Build         string   `json:"build"`
		OS            string   `json:"os"`
		OSFamily      string   `json:"os_family"`
		Kernel        string   `json:"kernel"`
		KernelRelease string   `json:"kernel_release"`
		MachineID     string   `json:"machine_id"`
		Platform      string   `json:"platform"`
		Messages      []string `json:"messages"`
	}

	json.NewEncoder(writer).Encode(reply{
		API:           1,
		Backend:       "locale-agent",
		Build:         "devel",
		OS:            api.facts.OS,
		OSFamily:      api.facts.OSFamily,
		Kernel:        api.facts.Kernel,
		KernelRelease: api.facts.KernelRelease,
		MachineID:     api.facts.MachineID,
		Platform:      api.manager.Platform(),
		Messages:      make([]string, 0),
	})
}

func (api *API) listHandler(writer http.ResponseWriter, request *http.Request, _ httprouter.Params) {
	type reply struct {
		Locales []string `json:"locales"`
	}

	locales := api.manager.ListAvail()

	if pattern := request.URL.Query().Get("pattern"); pattern != "" {
		g, err := glob.Compile(pattern)
		if err != nil {
			errors := responseError{
				ID:  "InvalidPattern",
				Msg: fmt.Sprintf("pattern %q is invalid: %v", pattern, err),
			}
			statusResponseError(writer, http.StatusBadRequest, errors)
			return
		}

		matched := make([]string, 0)
		for _, l := range locales {
			if g.Match(l) {
				matched = append(matched, l)
			}
		}
		locales = matched
	}

	json.NewEncoder(writer).Encode(reply{Locales: locales})
}

func (api *API) currentHandler(writer http.ResponseWriter, request *http.Request, _ httprouter.Params) {
	type reply struct {
		Locale string `json:"locale"`
	}

	l, err := api.manager.GetLocale()
	if err != nil {
		api.log(request).Errorf("cannot read the system locale: %v", err)
		errors := responseError{
			ID:  "LocaleError",
			Msg: err.Error(),
		}
		statusResponseError(writer, http.StatusInternalServerError, errors)
		return
	}

	json.NewEncoder(writer).Encode(reply{Locale: l})
}

func (api *API) setCurrentHandler(writer http.ResponseWriter, request *http.Request, _ httprouter.Params) {
	contentType := request.Header["Content-Type"]
	if len(contentType) != 1 || contentType[0] != "application/json" {
		errors := responseError{
			ID:  "SetLocaleError",
			Msg: "the request must be json",
		}
		statusResponseError(writer, http.StatusBadRequest, errors)
		return
	}

	var body struct {
		Locale string `json:"locale"`
	}
	err := json.NewDecoder(request.Body).Decode(&body)
	if err != nil || body.Locale == "" {
		errors := responseError{
			ID:  "SetLocaleError",
			Msg: "the request must carry a non-empty locale",
		}
		statusResponseError(writer, http.StatusBadRequest, errors)
		return
	}

	prometheus.SetLocaleRequests.Inc()

	ok, err := api.manager.SetLocale(body.Locale)
	if err != nil {
		prometheus.SetLocaleFailures.Inc()
		api.log(request).Errorf("cannot set locale %q: %v", body.Locale, err)
		errors := responseError{
			ID:  "SetLocaleError",
			Msg: err.Error(),
		}
		statusResponseError(writer, http.StatusInternalServerError, errors)
		return
	}
	if !ok {
		prometheus.SetLocaleFailures.Inc()
		errors := responseError{
			ID:  "SetLocaleFailed",
			Msg: fmt.Sprintf("the system rejected locale %q", body.Locale),
		}
		statusResponseError(writer, http.StatusBadRequest, errors)
		return
	}

	statusResponseOK(writer)
}

func (api *API) availHandler(writer http.ResponseWriter, request *http.Request, params httprouter.Params) {
	type reply struct {
		Locale string `json:"locale"`
		Avail  bool   `json:"avail"`
	}

	l := params.ByName("locale")
	json.NewEncoder(writer).Encode(reply{
		Locale: l,
		Avail:  api.manager.Avail(l),
	})
}

func (api *API) generateHandler(writer http.ResponseWriter, request *http.Request, _ httprouter.Params) {
	type reply struct {
		Status bool           `json:"status"`
		Result *system.Result `json:"result,omitempty"`
	}

	contentType := request.Header["Content-Type"]
	if len(contentType) != 1 || contentType[0] != "application/json" {
		errors := responseError{
			ID:  "GenLocaleError",
			Msg: "the request must be json",
		}
		statusResponseError(writer, http.StatusBadRequest, errors)
		return
	}

	var body struct {
		Locale  string `json:"locale"`
		Verbose bool   `json:"verbose"`
	}
	err := json.NewDecoder(request.Body).Decode(&body)
	if err != nil || body.Locale == "" {
		errors := responseError{
			ID:  "GenLocaleError",
			Msg: "the request must carry a non-empty locale",
		}
		statusResponseError(writer, http.StatusBadRequest, errors)
		return
	}

	prometheus.GenLocaleRequests.Inc()

	result, ok, err := api.manager.GenLocale(body.Locale, body.Verbose)
	if err != nil {
		prometheus.GenLocaleFailures.Inc()
		api.log(request).Errorf("cannot generate locale %q: %v", body.Locale, err)
		errors := responseError{
			ID:  "GenLocaleError",
			Msg: err.Error(),
		}
		statusResponseError(writer, http.StatusInternalServerError, errors)
		return
	}
	if result == nil {
		// Validation turned the locale down, the compiler never ran.
		prometheus.GenLocaleFailures.Inc()
		errors := responseError{
			ID:  "UnsupportedLocale",
			Msg: fmt.Sprintf("locale %q is not supported", body.Locale),
		}
		statusResponseError(writer, http.StatusBadRequest, errors)
		return
	}
	if !ok {
		prometheus.GenLocaleFailures.Inc()
	}

	resp := reply{Status: ok}
	if body.Verbose {
		resp.Result = result
	}
	json.NewEncoder(writer).Encode(resp)
}
