package echo

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
)

var _ = Describe("Handler", func() {
	var (
		handler *Handler
		req     *http.Request
		res     *httptest.ResponseRecorder
		logs    *bytes.Buffer
	)

	logEntries := func() []map[string]interface{} {
		var entries []map[string]interface{}

		for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
			if line == "" {
				continue
			}

			var entry map[string]interface{}
			Expect(json.Unmarshal([]byte(line), &entry)).To(Succeed())
			entries = append(entries, entry)
		}

		return entries
	}

	BeforeEach(func() {
		handler = &Handler{}
		logs = new(bytes.Buffer)
		res = httptest.NewRecorder()
	})

	JustBeforeEach(func() {
		logger := zerolog.New(logs)
		req = req.WithContext(logger.WithContext(req.Context()))
		handler.ServeHTTP(res, req)
	})

	Describe("given a form body", func() {
		BeforeEach(func() {
			req = httptest.NewRequest(http.MethodPost, "http://host/submit", strings.NewReader("a=1&b=2"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		})

		It("should respond status 200", func() {
			Expect(res.Code).To(Equal(http.StatusOK))
		})

		It("should respond plain text", func() {
			Expect(res.Header().Get("Content-Type")).To(Equal("text/plain; charset=utf-8"))
		})

		It("should echo the form", func() {
			Expect(res.Body.String()).To(Equal("POST http://host/submit data: {'a': '1', 'b': '2'}"))
		})

		It("should log the line once at info level", func() {
			entries := logEntries()
			Expect(entries).To(HaveLen(1))
			Expect(entries[0]).To(HaveKeyWithValue("level", "info"))
			Expect(entries[0]).To(HaveKeyWithValue("message", res.Body.String()))
			Expect(entries[0]).To(HaveKeyWithValue("payload", "form"))
		})
	})

	Describe("given a json body", func() {
		BeforeEach(func() {
			req = httptest.NewRequest(http.MethodPost, "http://host/submit", strings.NewReader(`{"x":5}`))
			req.Header.Set("Content-Type", "application/json")
		})

		It("should echo the json value", func() {
			Expect(res.Code).To(Equal(http.StatusOK))
			Expect(res.Body.String()).To(Equal("POST http://host/submit data: {'x': 5}"))
		})
	})

	Describe("given an empty body", func() {
		BeforeEach(func() {
			req = httptest.NewRequest(http.MethodGet, "http://host/ping", nil)
		})

		It("should echo empty bytes", func() {
			Expect(res.Code).To(Equal(http.StatusOK))
			Expect(res.Body.String()).To(Equal("GET http://host/ping data: b''"))
		})
	})

	Describe("given malformed json", func() {
		BeforeEach(func() {
			req = httptest.NewRequest(http.MethodPut, "http://host/items/1?force=true", strings.NewReader(`{"x":`))
			req.Header.Set("Content-Type", "application/json")
		})

		It("should echo the raw bytes", func() {
			Expect(res.Code).To(Equal(http.StatusOK))
			Expect(res.Body.String()).To(Equal(`PUT http://host/items/1?force=true data: b'{"x":'`))
		})
	})

	Describe("given deeply nested json", func() {
		var body string

		BeforeEach(func() {
			body = strings.Repeat("[", 1<<20)
			req = httptest.NewRequest(http.MethodPost, "http://host/", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		})

		It("should echo the raw bytes", func() {
			Expect(res.Code).To(Equal(http.StatusOK))
			Expect(res.Body.String()).To(Equal("POST http://host/ data: b'" + body + "'"))
		})
	})

	Describe("given a body over the limit", func() {
		BeforeEach(func() {
			handler.MaxBodySize = 4
			req = httptest.NewRequest(http.MethodPost, "http://host/", strings.NewReader("abcdefgh"))
		})

		It("should still respond status 200", func() {
			Expect(res.Code).To(Equal(http.StatusOK))
		})

		It("should echo the truncated body", func() {
			Expect(res.Body.String()).To(Equal("POST http://host/ data: b'abcd'"))
		})

		It("should log a warning", func() {
			entries := logEntries()
			Expect(entries).To(HaveLen(2))
			Expect(entries[0]).To(HaveKeyWithValue("level", "warn"))
			Expect(entries[1]).To(HaveKeyWithValue("level", "info"))
		})
	})

	Describe("given a body at the limit", func() {
		BeforeEach(func() {
			handler.MaxBodySize = 4
			req = httptest.NewRequest(http.MethodPost, "http://host/", strings.NewReader("abcd"))
		})

		It("should not log a warning", func() {
			Expect(logEntries()).To(HaveLen(1))
			Expect(res.Body.String()).To(Equal("POST http://host/ data: b'abcd'"))
		})
	})
})
