package grpc

import (
	"math"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// params reads typed fields out of a request Struct. The first problem is
// kept and reported by Err as InvalidArgument.
type params struct {
	fields map[string]*structpb.Value
	err    error
}

func paramsOf(req *structpb.Struct) *params {
	return &params{fields: req.GetFields()}
}

func (p *params) fail(key, problem string) {
	if p.err == nil {
		p.err = status.Errorf(codes.InvalidArgument, "%s: %s", key, problem)
	}
}

func (p *params) Err() error {
	return p.err
}

func (p *params) String(key string, required bool) string {
	v, ok := p.fields[key]
	if !ok || v.GetKind() == nil {
		if required {
			p.fail(key, "is required")
		}
		return ""
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		p.fail(key, "must be a string")
		return ""
	}
	if required && s.StringValue == "" {
		p.fail(key, "is required")
	}
	return s.StringValue
}

func (p *params) number(key string) (float64, bool) {
	v, ok := p.fields[key]
	if !ok {
		return 0, false
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return 0, false
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		p.fail(key, "must be a number")
		return 0, false
	}
	if n.NumberValue != math.Trunc(n.NumberValue) {
		p.fail(key, "must be an integer")
		return 0, false
	}
	return n.NumberValue, true
}

func (p *params) Int(key string, required bool) int {
	n, ok := p.number(key)
	if !ok {
		if required {
			p.fail(key, "is required")
		}
		return 0
	}
	return int(n)
}

// OptInt64 returns nil when key is absent or null.
func (p *params) OptInt64(key string) *int64 {
	n, ok := p.number(key)
	if !ok {
		return nil
	}
	v := int64(n)
	return &v
}

func (p *params) Bool(key string) bool {
	v, ok := p.fields[key]
	if !ok {
		return false
	}
	b, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		p.fail(key, "must be a boolean")
		return false
	}
	return b.BoolValue
}

// Time parses an RFC 3339 timestamp; nil when absent and not required.
func (p *params) Time(key string, required bool) *time.Time {
	s := p.String(key, required)
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		p.fail(key, "must be an RFC 3339 timestamp")
		return nil
	}
	return &t
}

func toStruct(m map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return s, nil
}
