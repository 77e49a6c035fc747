package compiler_test

import (
	"testing"

	"github.com/aretw0/crank/internal/compiler"
	"github.com/aretw0/crank/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		line string
		want compiler.Directive
	}{
		{
			name: "Guard And Action",
			line: "Hungry --> Eating : EvHavePermission [HasForks] / PickUpForks",
			want: compiler.Directive{Kind: compiler.KindTransition, Shape: 1, From: "Hungry", To: "Eating", Event: "EvHavePermission", Guard: "HasForks", Func: "PickUpForks"},
		},
		{
			name: "Guard",
			line: "StartUp --> Sleeping : EvStart [!GetWaitingCustomer]",
			want: compiler.Directive{Kind: compiler.KindTransition, Shape: 2, From: "StartUp", To: "Sleeping", Event: "EvStart", Guard: "!GetWaitingCustomer"},
		},
		{
			name: "Action With Parens",
			line: "Hungry --> Eating : EvHavePermission / Wait()",
			want: compiler.Directive{Kind: compiler.KindTransition, Shape: 3, From: "Hungry", To: "Eating", Event: "EvHavePermission", Func: "Wait"},
		},
		{
			name: "Event Only",
			line: "StartUp --> Thinking : EvStart",
			want: compiler.Directive{Kind: compiler.KindTransition, Shape: 4, From: "StartUp", To: "Thinking", Event: "EvStart"},
		},
		{
			name: "Bare Pseudo States",
			line: "[*] --> StartUp",
			want: compiler.Directive{Kind: compiler.KindTransition, Shape: 5, From: "[*]", To: "StartUp"},
		},
		{
			name: "Tight Spacing",
			line: "A-->B:Ev",
			want: compiler.Directive{Kind: compiler.KindTransition, Shape: 4, From: "A", To: "B", Event: "Ev"},
		},
		{
			name: "Enter",
			line: "Cutting : enter : StartCutting",
			want: compiler.Directive{Kind: compiler.KindHook, Shape: 6, From: "Cutting", Hook: domain.HookEnter, Func: "StartCutting"},
		},
		{
			name: "Entry Capitalized",
			line: "Cutting : Entry : StartCutting",
			want: compiler.Directive{Kind: compiler.KindHook, Shape: 6, From: "Cutting", Hook: domain.HookEnter, Func: "StartCutting"},
		},
		{
			name: "Do",
			line: "Cutting : do : Cut",
			want: compiler.Directive{Kind: compiler.KindHook, Shape: 7, From: "Cutting", Hook: domain.HookDo, Func: "Cut"},
		},
		{
			name: "Exit",
			line: "Cutting : exit : StopCutting()",
			want: compiler.Directive{Kind: compiler.KindHook, Shape: 8, From: "Cutting", Hook: domain.HookExit, Func: "StopCutting"},
		},
		{
			name: "Start Marker",
			line: "@startuml",
			want: compiler.Directive{Kind: compiler.KindStart},
		},
		{
			name: "Blank",
			line: "",
			want: compiler.Directive{Kind: compiler.KindBlank},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := compiler.Classify(tt.line)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_Unrecognized(t *testing.T) {
	for _, line := range []string{
		"state Foo {",
		"A -> B : Ev",
		"A --> B : Ev [Guard",
		"[*] : enter : Foo",
		"note left of A",
	} {
		t.Run(line, func(t *testing.T) {
			_, ok := compiler.Classify(line)
			assert.False(t, ok)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "Cutting : do : Cut", compiler.Normalize("  Cutting :\tdo    : Cut  "))
	assert.Equal(t, "", compiler.Normalize(" \t "))
}
