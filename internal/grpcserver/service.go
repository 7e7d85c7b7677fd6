package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "jobboard.v1.JobBoard"

	QueryJobsMethod = "/" + ServiceName + "/QueryJobs"
	GetJobMethod    = "/" + ServiceName + "/GetJob"
)

// JobBoardServer is the server API of jobboard.v1.JobBoard. Requests and
// responses are google.protobuf.Struct documents shaped like the HTTP API.
type JobBoardServer interface {
	QueryJobs(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes jobboard.v1.JobBoard for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*JobBoardServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "QueryJobs", Handler: queryJobsHandler},
		{MethodName: "GetJob", Handler: getJobHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jobboard/v1/jobboard.proto",
}

// Register mounts srv on s.
func Register(s grpc.ServiceRegistrar, srv JobBoardServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func queryJobsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(JobBoardServer).QueryJobs(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: QueryJobsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(JobBoardServer).QueryJobs(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getJobHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(JobBoardServer).GetJob(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetJobMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(JobBoardServer).GetJob(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls jobboard.v1.JobBoard.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an open connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// QueryJobs runs a listing query.
func (c *Client) QueryJobs(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, QueryJobsMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetJob fetches one job by id or slug.
func (c *Client) GetJob(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetJobMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
