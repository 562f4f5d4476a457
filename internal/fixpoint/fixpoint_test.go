package fixpoint

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/require"

	"periphgen/internal/component"
	"periphgen/internal/corrector"
)

// fakeNode is a minimal component.Node double used to exercise the
// fixpoint loop without depending on any concrete domain type.
type fakeNode struct {
	component.Base
}

func newFakeNode(name string) *fakeNode {
	n := &fakeNode{Base: component.NewBase(name, "", nil)}
	return n
}

func (n *fakeNode) Equal(other component.Node) bool { return n.NameEqual(other) }
func (n *fakeNode) Size() int                       { return 0 }
func (n *fakeNode) DefinedValue() (string, bool)    { return "", false }

func TestApplyConvergesWhenCorrectorStopsMatching(t *testing.T) {
	n := newFakeNode("OLD")
	root := corrector.New(nil, map[string]*corrector.Corrector{
		"OLD": corrector.New(corrector.Modify("NEW", "", 0), nil),
	})

	require.NoError(t, Apply(n, root))
	require.Equal(t, "NEW", n.Name())
}

func TestApplyPropagatesIntoChildren(t *testing.T) {
	parent := newFakeNode("PARENT")
	child := newFakeNode("OLD_CHILD")
	component.AddChild(parent, child)

	root := corrector.New(nil, map[string]*corrector.Corrector{
		"PARENT": corrector.New(nil, map[string]*corrector.Corrector{
			"OLD_CHILD": corrector.New(corrector.Modify("NEW_CHILD", "", 0), nil),
		}),
	})

	require.NoError(t, Apply(parent, root))
	require.Equal(t, "NEW_CHILD", child.Name())
}

func TestApplyWithCapReturnsFixConvergenceErrorWhenOscillating(t *testing.T) {
	n := newFakeNode("A")
	root := corrector.New(nil, map[string]*corrector.Corrector{
		"*": corrector.New(func(node component.Node) error {
			if node.Core().Name() == "A" {
				node.Core().SetName(node, "B")
			} else {
				node.Core().SetName(node, "A")
			}
			return nil
		}, nil),
	})

	err := ApplyWithCap(n, root, 5)
	require.Error(t, err)
	require.Contains(t, err.Error(), "5 fix iterations")
}
