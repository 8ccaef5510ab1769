/*
 * Copyright 2025 The jsavrs Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ssa

import (
    `fmt`

    `github.com/oleiade/lane`
)

// _FlowEdge is one directed CFG edge, queued when it first becomes
// provably executable.
type _FlowEdge struct {
    bb *BasicBlock
    to *BasicBlock
}

func (self _FlowEdge) String() string {
    return fmt.Sprintf("bb_%d => bb_%d", self.bb.Id, self.to.Id)
}

// _InsRef identifies one instruction inside a block: either the i-th
// phi node or the i-th ordinary instruction.
type _InsRef struct {
    bb  *BasicBlock
    phi bool
    i   int
}

func (self _InsRef) ins() IrNode {
    if self.phi {
        return self.bb.Phi[self.i]
    } else {
        return self.bb.Ins[self.i]
    }
}

func (self _InsRef) String() string {
    return fmt.Sprintf("bb_%d[%d]: %s", self.bb.Id, self.i, self.ins())
}

type _EdgeQueue struct {
    q *lane.Queue
}

func newEdgeQueue() *_EdgeQueue {
    return &_EdgeQueue { q: lane.NewQueue() }
}

func (self *_EdgeQueue) empty() bool       { return self.q.Empty() }
func (self *_EdgeQueue) push(e _FlowEdge)  { self.q.Enqueue(e) }
func (self *_EdgeQueue) pop() _FlowEdge    { return self.q.Dequeue().(_FlowEdge) }

type _InsQueue struct {
    q *lane.Queue
}

func newInsQueue() *_InsQueue {
    return &_InsQueue { q: lane.NewQueue() }
}

func (self *_InsQueue) empty() bool      { return self.q.Empty() }
func (self *_InsQueue) push(v _InsRef)   { self.q.Enqueue(v) }
func (self *_InsQueue) pop() _InsRef     { return self.q.Dequeue().(_InsRef) }

// _ExecState records which blocks and which directed edges have been
// proven executable. Both sets only ever grow within one analysis run.
type _ExecState struct {
    bb map[int]bool
    eg map[_FlowEdge]bool
}

func newExecState() *_ExecState {
    return &_ExecState {
        bb: make(map[int]bool),
        eg: make(map[_FlowEdge]bool),
    }
}

/* markEdge returns false if the edge was already known executable */
func (self *_ExecState) markEdge(e _FlowEdge) bool {
    if self.eg[e] {
        return false
    } else {
        self.eg[e] = true
        return true
    }
}

/* markBlock returns false if the block was already known executable */
func (self *_ExecState) markBlock(id int) bool {
    if self.bb[id] {
        return false
    } else {
        self.bb[id] = true
        return true
    }
}

func (self *_ExecState) edge(e _FlowEdge) bool { return self.eg[e] }
func (self *_ExecState) block(id int) bool     { return self.bb[id] }
