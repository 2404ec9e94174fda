// Package rpc exposes typed Go functions as named remote procedures over
// JSON/HTTP.
//
// A procedure is called at <prefix>/<name>. Queries accept GET (input as the
// URL-encoded JSON "input" query parameter) or POST; mutations accept POST
// only. Responses are wrapped as {"result":{"data":...}} on success and
// {"error":{"code":...,"message":...}} on failure.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type Kind int

const (
	KindQuery Kind = iota
	KindMutation
)

func (k Kind) String() string {
	if k == KindMutation {
		return "mutation"
	}
	return "query"
}

// Procedure is a named, typed operation. Build one with Query, QueryWith or
// Mutation.
type Procedure struct {
	Name string
	Kind Kind

	call func(ctx context.Context, raw []byte) (any, error)
}

// Query registers a procedure without input.
func Query[Out any](name string, fn func(ctx context.Context) (Out, error)) Procedure {
	return Procedure{
		Name: name,
		Kind: KindQuery,
		call: func(ctx context.Context, _ []byte) (any, error) {
			return fn(ctx)
		},
	}
}

// QueryWith registers a read-only procedure that takes input.
func QueryWith[In, Out any](name string, fn func(ctx context.Context, in In) (Out, error)) Procedure {
	return Procedure{Name: name, Kind: KindQuery, call: withInput(fn)}
}

// Mutation registers a procedure that changes state.
func Mutation[In, Out any](name string, fn func(ctx context.Context, in In) (Out, error)) Procedure {
	return Procedure{Name: name, Kind: KindMutation, call: withInput(fn)}
}

func withInput[In, Out any](fn func(ctx context.Context, in In) (Out, error)) func(context.Context, []byte) (any, error) {
	return func(ctx context.Context, raw []byte) (any, error) {
		var in In
		if len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &in); err != nil {
				return nil, BadRequest("invalid input: " + err.Error())
			}
		}
		if err := binding.Validator.ValidateStruct(&in); err != nil {
			return nil, BadRequest(err.Error())
		}
		return fn(ctx, in)
	}
}

// ErrorMapper converts a procedure error into its wire form. Returning nil
// falls back to an internal error.
type ErrorMapper func(err error) *Error

// Router dispatches calls to registered procedures.
type Router struct {
	procs    map[string]Procedure
	mapError ErrorMapper
	log      *slog.Logger
}

func NewRouter(log *slog.Logger, mapError ErrorMapper) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{procs: make(map[string]Procedure), mapError: mapError, log: log}
}

// Add registers procedures; a later registration replaces an earlier one
// with the same name.
func (r *Router) Add(procs ...Procedure) {
	for _, p := range procs {
		r.procs[p.Name] = p
	}
}

// Alias makes an existing procedure callable under another name.
func (r *Router) Alias(alias, name string) {
	if p, ok := r.procs[name]; ok {
		p.Name = alias
		r.procs[alias] = p
	}
}

// Names lists every registered name.
func (r *Router) Names() []string {
	out := make([]string, 0, len(r.procs))
	for name := range r.procs {
		out = append(out, name)
	}
	return out
}

// Register mounts the router on g.
func (r *Router) Register(g *gin.RouterGroup) {
	g.GET("/:name", r.serve)
	g.POST("/:name", r.serve)
}

type envelope struct {
	Result *result `json:"result,omitempty"`
	Error  *Error  `json:"error,omitempty"`
}

type result struct {
	Data any `json:"data"`
}

func (r *Router) serve(c *gin.Context) {
	name := c.Param("name")
	p, ok := r.procs[name]
	if !ok {
		r.fail(c, name, NotFound("no procedure named "+name))
		return
	}
	if c.Request.Method == http.MethodGet && p.Kind == KindMutation {
		r.fail(c, name, &Error{
			Code:    CodeMethodNotSupported,
			Message: "mutation " + name + " requires POST",
			Status:  http.StatusMethodNotAllowed,
		})
		return
	}

	raw, err := readInput(c)
	if err != nil {
		r.fail(c, name, BadRequest("read input: "+err.Error()))
		return
	}

	out, err := p.call(c.Request.Context(), raw)
	if err != nil {
		r.fail(c, name, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Result: &result{Data: out}})
}

func readInput(c *gin.Context) ([]byte, error) {
	if c.Request.Method == http.MethodGet {
		return []byte(c.Query("input")), nil
	}
	if c.Request.Body == nil {
		return nil, nil
	}
	return io.ReadAll(c.Request.Body)
}

func (r *Router) fail(c *gin.Context, name string, err error) {
	var rpcErr *Error
	if !errors.As(err, &rpcErr) && r.mapError != nil {
		rpcErr = r.mapError(err)
	}
	if rpcErr == nil {
		r.log.ErrorContext(c.Request.Context(), "procedure failed",
			"procedure", name, "err", err)
		rpcErr = Internal()
	}
	c.AbortWithStatusJSON(rpcErr.Status, envelope{Error: rpcErr})
}
