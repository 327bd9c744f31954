package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurante-inventario/internal/application/ports"
	"github.com/jhoicas/restaurante-inventario/internal/domain"
)

func newTestService(t *testing.T, status int, body string, seen *geminiRequest) *GeminiService {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, seen)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	s := NewGeminiService("k", "gemini-test")
	s.baseURL = srv.URL
	return s
}

func TestChat_Texto(t *testing.T) {
	var req geminiRequest
	s := newTestService(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"Quedan 10 kg."}]}}]}`, &req)

	reply, err := s.Chat(context.Background(), "¿cuánto tomate?")
	require.NoError(t, err)
	assert.Equal(t, "Quedan 10 kg.", reply.Text)
	assert.Nil(t, reply.Action)
	require.Len(t, req.Tools, 1)
	assert.Len(t, req.Tools[0].FunctionDeclarations, 4)
}

func TestChat_LlamadaDeFuncion(t *testing.T) {
	s := newTestService(t, http.StatusOK, `{"candidates":[{"content":{"parts":[
		{"functionCall":{"name":"remove_stock","args":{"productName":"Tomate","quantity":2,"unit":"kg","destination":"Cocina"}}}
	]}}]}`, nil)

	reply, err := s.Chat(context.Background(), "saca 2 kg de tomate")
	require.NoError(t, err)
	require.NotNil(t, reply.Action)
	assert.Equal(t, ports.ToolRemoveStock, reply.Action.Name)
	assert.JSONEq(t, `{"productName":"Tomate","quantity":2,"unit":"kg","destination":"Cocina"}`, string(reply.Action.Args))
}

func TestGenerate(t *testing.T) {
	s := newTestService(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"## Carnes"},{"text":"\n- Costilla"}]}}]}`, nil)
	text, err := s.Generate(context.Background(), "lista")
	require.NoError(t, err)
	assert.Equal(t, "## Carnes\n- Costilla", text)
}

func TestErrores(t *testing.T) {
	_, err := NewGeminiService("", "gemini-test").Chat(context.Background(), "hola")
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	s := newTestService(t, http.StatusTooManyRequests, `{"error":{"code":429,"message":"quota"}}`, nil)
	_, err = s.Generate(context.Background(), "hola")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Contains(t, err.Error(), "quota")

	s = newTestService(t, http.StatusOK, `{"candidates":[]}`, nil)
	_, err = s.Chat(context.Background(), "hola")
	assert.Error(t, err)
}
