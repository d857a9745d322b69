package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"inmoscan/internal/logger"
	"inmoscan/internal/middleware"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
)

func logLines(buf *bytes.Buffer) []map[string]any {
	var lines []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var line map[string]any
		Expect(dec.Decode(&line)).To(Succeed())
		lines = append(lines, line)
	}
	return lines
}

var _ = Describe("Middleware", func() {
	var (
		buf    *bytes.Buffer
		log    zerolog.Logger
		router *gin.Engine
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		buf = &bytes.Buffer{}
		log = zerolog.New(buf)

		router = gin.New()
		router.Use(middleware.RequestID(log), middleware.Logger(log), middleware.Recovery(log))
		router.GET("/ok", func(c *gin.Context) {
			l := logger.FromContext(c.Request.Context())
			l.Info().Msg("handler")
			c.JSON(http.StatusOK, gin.H{"status": "UP"})
		})
		router.GET("/boom", func(c *gin.Context) {
			panic("boom")
		})
	})

	Describe("RequestID", func() {
		It("generates an id when none is sent", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

			Expect(w.Header().Get(middleware.RequestIDHeader)).To(HaveLen(36))
		})

		It("keeps the caller's id and tags handler logs with it", func() {
			req := httptest.NewRequest(http.MethodGet, "/ok", nil)
			req.Header.Set(middleware.RequestIDHeader, "req-123")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Header().Get(middleware.RequestIDHeader)).To(Equal("req-123"))

			lines := logLines(buf)
			Expect(lines).To(HaveLen(2))
			Expect(lines[0]).To(HaveKeyWithValue("message", "handler"))
			Expect(lines[0]).To(HaveKeyWithValue("request_id", "req-123"))
		})
	})

	Describe("Logger", func() {
		It("logs method, path and status", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

			lines := logLines(buf)
			last := lines[len(lines)-1]
			Expect(last).To(HaveKeyWithValue("message", "HTTP request"))
			Expect(last).To(HaveKeyWithValue("method", "GET"))
			Expect(last).To(HaveKeyWithValue("path", "/ok"))
			Expect(last).To(HaveKeyWithValue("status", BeNumerically("==", 200)))
			Expect(last).To(HaveKeyWithValue("level", "info"))
		})
	})

	Describe("Recovery", func() {
		It("turns a panic into a 500", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).To(MatchJSON(`{"error":"Internal server error"}`))

			lines := logLines(buf)
			Expect(lines[0]).To(HaveKeyWithValue("message", "Panic recovered"))
			Expect(lines[len(lines)-1]).To(HaveKeyWithValue("level", "error"))
		})
	})
})
