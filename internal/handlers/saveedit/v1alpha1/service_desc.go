package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "saveedit.v1alpha1.SaveEditorService"

// Method names
const (
	MethodOpenSession      = "OpenSession"
	MethodGetSession       = "GetSession"
	MethodResetSession     = "ResetSession"
	MethodExportSession    = "ExportSession"
	MethodCloseSession     = "CloseSession"
	MethodAddItem          = "AddItem"
	MethodRemoveItem       = "RemoveItem"
	MethodSetTier          = "SetTier"
	MethodGetTier          = "GetTier"
	MethodSetResearched    = "SetResearched"
	MethodCountInInventory = "CountInInventory"
	MethodListInventory    = "ListInventory"
	MethodListCatalog      = "ListCatalog"
)

// SaveEditorServer is the server API for the save editor service.
// Requests and responses are google.protobuf.Struct messages.
type SaveEditorServer interface {
	OpenSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResetSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CloseSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetTier(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTier(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetResearched(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CountInInventory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListInventory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCatalog(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(SaveEditorServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			server := srv.(SaveEditorServer)
			if interceptor == nil {
				return call(server, ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(server, ctx, req.(*structpb.Struct))
			})
		},
	}
}

// ServiceDesc describes the save editor service for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SaveEditorServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(MethodOpenSession, SaveEditorServer.OpenSession),
		unaryMethod(MethodGetSession, SaveEditorServer.GetSession),
		unaryMethod(MethodResetSession, SaveEditorServer.ResetSession),
		unaryMethod(MethodExportSession, SaveEditorServer.ExportSession),
		unaryMethod(MethodCloseSession, SaveEditorServer.CloseSession),
		unaryMethod(MethodAddItem, SaveEditorServer.AddItem),
		unaryMethod(MethodRemoveItem, SaveEditorServer.RemoveItem),
		unaryMethod(MethodSetTier, SaveEditorServer.SetTier),
		unaryMethod(MethodGetTier, SaveEditorServer.GetTier),
		unaryMethod(MethodSetResearched, SaveEditorServer.SetResearched),
		unaryMethod(MethodCountInInventory, SaveEditorServer.CountInInventory),
		unaryMethod(MethodListInventory, SaveEditorServer.ListInventory),
		unaryMethod(MethodListCatalog, SaveEditorServer.ListCatalog),
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterSaveEditorServer registers srv on s
func RegisterSaveEditorServer(s grpc.ServiceRegistrar, srv SaveEditorServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// FullMethod returns the gRPC path of a method
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}
