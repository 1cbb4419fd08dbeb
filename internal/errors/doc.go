// Package errors carries coded errors through the save editor.
//
// Every failure that leaves a package is an *Error with a Code, a short
// message and optional metadata. Codes survive wrapping, so a NotFound
// raised by a session repository is still a NotFound when the handler
// converts it with ToGRPCError.
//
//	target, err := engine.Resolve(itemID)
//	if err != nil {
//	    return nil, errors.Wrap(err, "failed to resolve item")
//	}
//
// Metadata travels to gRPC clients as a google.protobuf.Struct detail and
// is restored by FromGRPCError:
//
//	err := errors.NotFoundf("session %s not found", id).WithMeta("session_id", id)
//
// Config validation collects field problems with the builder:
//
//	vb := errors.NewValidationBuilder()
//	if cfg.Catalog == nil {
//	    vb.RequiredField("Catalog")
//	}
//	return vb.Build()
//
// Layer conventions:
//   - repositories return NotFound for missing or expired sessions
//   - the inventory engine returns InvalidArgument for unknown items and
//     malformed targets
//   - the orchestrator returns FailedPrecondition when a session cannot
//     take an edit and Aborted when a concurrent writer won
//   - handlers only convert, never invent codes
package errors
