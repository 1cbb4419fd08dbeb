package v1alpha1

import (
	"math"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/witchfire-saves/internal/errors"
)

// request reads typed fields out of a Struct and collects problems
type request struct {
	fields map[string]*structpb.Value
	vb     *errors.ValidationBuilder
}

func readRequest(req *structpb.Struct) *request {
	return &request{
		fields: req.GetFields(),
		vb:     errors.NewValidationBuilder(),
	}
}

func (r *request) str(name string, required bool) string {
	v, ok := r.fields[name]
	if !ok || v.GetKind() == nil {
		if required {
			r.vb.RequiredField(name)
		}
		return ""
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		r.vb.InvalidField(name, "must be a string")
		return ""
	}
	if required && strings.TrimSpace(s.StringValue) == "" {
		r.vb.RequiredField(name)
	}
	return s.StringValue
}

func (r *request) boolean(name string) bool {
	v, ok := r.fields[name]
	if !ok {
		return false
	}
	b, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		r.vb.InvalidField(name, "must be a boolean")
		return false
	}
	return b.BoolValue
}

// integer accepts whole numbers only; Struct carries every number as a double
func (r *request) integer(name string, required bool) int64 {
	v, ok := r.fields[name]
	if !ok {
		if required {
			r.vb.RequiredField(name)
		}
		return 0
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) || math.Abs(n.NumberValue) > 1<<53 {
		r.vb.InvalidField(name, "must be an integer")
		return 0
	}
	return int64(n.NumberValue)
}

func (r *request) err() error {
	return r.vb.Build()
}

func response(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, errors.ToGRPCError(errors.WrapWithCode(err, errors.CodeInternal, "failed to encode response"))
	}
	return out, nil
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
