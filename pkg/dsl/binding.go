package dsl

import "github.com/aretw0/nodedialog/pkg/domain"

// Static builds a binding to a function registered on a type.
func Static(typ, method string, params ...domain.Parameter) domain.EventBinding {
	return domain.EventBinding{Kind: domain.TargetStatic, Type: typ, Method: method, Params: params}
}

// Bound builds a binding to a method of a live target.
func Bound(target any, typ, method string, params ...domain.Parameter) domain.EventBinding {
	return domain.EventBinding{Kind: domain.TargetBound, Type: typ, Method: method, Params: params, Target: target}
}

// Injected builds a binding whose target is injected later under key.
// An empty key falls back to "Type.Method".
func Injected(key, typ, method string, params ...domain.Parameter) domain.EventBinding {
	return domain.EventBinding{Key: key, Kind: domain.TargetInjected, Type: typ, Method: method, Params: params}
}

func String(v string) domain.Parameter { return domain.Parameter{Type: domain.ParamString, Value: v} }

func Int(v int) domain.Parameter { return domain.Parameter{Type: domain.ParamInt, Value: v} }

func Float(v float64) domain.Parameter { return domain.Parameter{Type: domain.ParamFloat, Value: v} }

func Bool(v bool) domain.Parameter { return domain.Parameter{Type: domain.ParamBool, Value: v} }
