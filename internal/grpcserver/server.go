// Package grpcserver implements the JobBoard gRPC server.
//
// It delegates all business logic to the catalog and the query package and
// handles only the gRPC transport concerns: request decoding, error mapping
// and conversion of results to google.protobuf.Struct.
package grpcserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"jobmate/board-service/internal/catalog"
	"jobmate/board-service/internal/job"
	"jobmate/board-service/internal/query"
)

// Catalog is the read side of *catalog.Catalog.
type Catalog interface {
	Jobs(ctx context.Context) ([]job.Job, error)
	Job(ctx context.Context, idOrSlug string) (job.Job, []job.Job, error)
}

// Server implements JobBoardServer.
type Server struct {
	catalog Catalog
}

// NewServer constructs a Server backed by cat.
func NewServer(cat Catalog) *Server {
	return &Server{catalog: cat}
}

// New returns a grpc.Server with the JobBoard service registered, request
// logging installed and handler panics turned into Internal errors.
func New(cat Catalog, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(logUnary, recoverUnary))
	s := grpc.NewServer(opts...)
	Register(s, NewServer(cat))
	return s
}

// ─── Message shapes ───────────────────────────────────────────────────────────

type jobMessage struct {
	job.Job
	Slug     string `json:"slug"`
	Location string `json:"location"`
}

type listMessage struct {
	Jobs       []jobMessage      `json:"jobs"`
	TotalCount int               `json:"totalCount"`
	TotalPages int               `json:"totalPages"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	Pages      []query.PageToken `json:"pages"`
	Facets     query.Facets      `json:"facets"`
}

type detailMessage struct {
	Job     jobMessage   `json:"job"`
	Similar []jobMessage `json:"similar"`
}

// ─── RPC implementations ──────────────────────────────────────────────────────

// QueryJobs accepts the listing parameters of GET /jobs as Struct fields
// (lists may be given as list values) and returns one clamped page.
func (s *Server) QueryJobs(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	values, err := toValues(req)
	if err != nil {
		return nil, toGRPCError(err)
	}
	p, err := query.ParseValues(values)
	if err != nil {
		return nil, toGRPCError(err)
	}

	jobs, err := s.catalog.Jobs(ctx)
	if err != nil {
		return nil, toGRPCError(err)
	}

	res := query.Run(jobs, p)
	if clamped := query.ClampPage(p, res.TotalPages); clamped.Page != res.Page {
		res = query.Run(jobs, clamped)
	}

	return toStruct(listMessage{
		Jobs:       messages(res.Jobs),
		TotalCount: res.TotalCount,
		TotalPages: res.TotalPages,
		Page:       res.Page,
		PageSize:   res.PageSize,
		Pages:      query.PageRange(res.Page, res.TotalPages),
		Facets:     res.Facets,
	})
}

// GetJob returns the job named by the "id" field (record id or slug) and
// its similar jobs.
func (s *Server) GetJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := strings.TrimSpace(req.GetFields()["id"].GetStringValue())
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	j, all, err := s.catalog.Job(ctx, id)
	if err != nil {
		return nil, toGRPCError(err)
	}

	return toStruct(detailMessage{
		Job:     message(j),
		Similar: messages(query.Similar(j, all, query.DefaultSimilarLimit)),
	})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// toGRPCError maps domain errors to gRPC status errors.
func toGRPCError(err error) error {
	var ve *query.ValidationError
	switch {
	case errors.As(err, &ve):
		return status.Error(codes.InvalidArgument, ve.Msg)
	case errors.Is(err, query.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, catalog.ErrUnavailable):
		return status.Error(codes.Unavailable, "job data temporarily unavailable")
	}
	log.Error().Err(err).Str("component", "grpc").Msg("request failed")
	return status.Error(codes.Internal, "internal server error")
}

// toValues flattens a request Struct into the query string form understood
// by query.ParseValues.
func toValues(req *structpb.Struct) (url.Values, error) {
	v := url.Values{}
	for key, field := range req.GetFields() {
		s, err := scalar(field)
		if err != nil {
			return nil, &query.ValidationError{Msg: fmt.Sprintf("invalid %s: %v", key, err)}
		}
		if list := field.GetListValue(); list != nil {
			parts := make([]string, 0, len(list.GetValues()))
			for _, item := range list.GetValues() {
				p, err := scalar(item)
				if err != nil || item.GetListValue() != nil {
					return nil, &query.ValidationError{Msg: fmt.Sprintf("invalid %s: lists hold strings or numbers", key)}
				}
				parts = append(parts, p)
			}
			s = strings.Join(parts, ",")
		}
		if s != "" {
			v.Set(key, s)
		}
	}
	return v, nil
}

func scalar(v *structpb.Value) (string, error) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue, nil
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64), nil
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(k.BoolValue), nil
	case *structpb.Value_NullValue, *structpb.Value_ListValue, nil:
		return "", nil
	}
	return "", errors.New("nested objects are not supported")
}

func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, toGRPCError(fmt.Errorf("marshal response: %w", err))
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, toGRPCError(fmt.Errorf("decode response: %w", err))
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, toGRPCError(fmt.Errorf("build response: %w", err))
	}
	return out, nil
}

func message(j job.Job) jobMessage {
	return jobMessage{Job: j, Slug: job.Slug(j.Title, j.Company), Location: job.FormatLocation(&j)}
}

func messages(jobs []job.Job) []jobMessage {
	out := make([]jobMessage, len(jobs))
	for i, j := range jobs {
		out[i] = message(j)
	}
	return out
}

func logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	log.Debug().
		Str("component", "grpc").
		Str("method", info.FullMethod).
		Str("code", status.Code(err).String()).
		Dur("took", time.Since(start)).
		Msg("rpc")
	return resp, err
}

func recoverUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("component", "grpc").
				Str("method", info.FullMethod).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("handler panicked")
			err = status.Error(codes.Internal, "internal server error")
		}
	}()
	return handler(ctx, req)
}
