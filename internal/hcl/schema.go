package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot decodes all possible top-level blocks from any file.
type fileRoot struct {
	Forms  []*formBlock `hcl:"form,block"`
	Remain hcl.Body     `hcl:",remain"`
}

type formBlock struct {
	Name            string         `hcl:"name,label"`
	SubmitWhenValid bool           `hcl:"submit_when_valid,optional"`
	OnSubmit        string         `hcl:"on_submit,optional"`
	SubmitArgs      hcl.Expression `hcl:"submit_args,optional"`
	InitValues      hcl.Expression `hcl:"init_values,optional"`
	Fields          []*fieldBlock  `hcl:"field,block"`
	Scopes          []*scopeBlock  `hcl:"scope,block"`
}

// scopeBlock groups fields under a path prefix. Scopes nest.
type scopeBlock struct {
	Name   string        `hcl:"name,label"`
	Fields []*fieldBlock `hcl:"field,block"`
	Scopes []*scopeBlock `hcl:"scope,block"`
}

type fieldBlock struct {
	Name          string         `hcl:"name,label"`
	Validator     string         `hcl:"validator,optional"`
	Specs         hcl.Expression `hcl:"specs,optional"`
	Default       hcl.Expression `hcl:"default,optional"`
	Depends       hcl.Expression `hcl:"depends,optional"`
	BizRule       string         `hcl:"biz_rule,optional"`
	BizArgs       hcl.Expression `hcl:"biz_args,optional"`
	ValidateDelay hcl.Expression `hcl:"validate_delay,optional"`
	RestoreValid  bool           `hcl:"restore_valid,optional"`
}
