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

// CFGBuilder assembles a function's CFG block by block, allocating
// dense block IDs and SSA names. The IR generator in the front end
// drives it; tests use it to stand up graphs directly.
type CFGBuilder struct {
    nr Reg
    bb []*BasicBlock
}

func CreateCFGBuilder() *CFGBuilder {
    return new(CFGBuilder)
}

// Block allocates a new empty basic block. The first allocated block
// becomes the entry.
func (self *CFGBuilder) Block() *BasicBlock {
    bb := &BasicBlock { Id: len(self.bb) }
    self.bb = append(self.bb, bb)
    return bb
}

func (self *CFGBuilder) mkreg() Reg {
    r := self.nr
    self.nr++
    return r
}

func (self *CFGBuilder) ConstInt(bb *BasicBlock, v int64) Reg {
    r := self.mkreg()
    bb.addInstr(&IrConstInt { R: r, V: v })
    return r
}

func (self *CFGBuilder) LoadArg(bb *BasicBlock, id uint64) Reg {
    r := self.mkreg()
    bb.addInstr(&IrLoadArg { R: r, Id: id })
    return r
}

func (self *CFGBuilder) Unary(bb *BasicBlock, op IrUnaryOp, v Reg) Reg {
    r := self.mkreg()
    bb.addInstr(&IrUnaryExpr { R: r, V: v, Op: op })
    return r
}

func (self *CFGBuilder) Binary(bb *BasicBlock, op IrBinaryOp, x Reg, y Reg) Reg {
    r := self.mkreg()
    bb.addInstr(&IrBinaryExpr { R: r, X: x, Y: y, Op: op })
    return r
}

func (self *CFGBuilder) Call(bb *BasicBlock, fn string, in ...Reg) Reg {
    r := self.mkreg()
    bb.addInstr(&IrCall { R: r, Fn: fn, In: in })
    return r
}

// Phi merges one incoming value per predecessor block.
func (self *CFGBuilder) Phi(bb *BasicBlock, in map[*BasicBlock]Reg) Reg {
    r := self.mkreg()
    v := make(map[*BasicBlock]*Reg, len(in))

    /* copy the incoming values */
    for p, reg := range in {
        v[p] = regnewref(reg)
    }

    /* prepend, phi nodes precede the block body */
    bb.addInstr(&IrPhi { R: r, V: v })
    return r
}

func (self *CFGBuilder) Jump(bb *BasicBlock, to *BasicBlock) {
    bb.termBranch(to)
}

func (self *CFGBuilder) BranchIf(bb *BasicBlock, v Reg, t *BasicBlock, f *BasicBlock) {
    bb.termCondition(v, t, f)
}

func (self *CFGBuilder) Switch(bb *BasicBlock, v Reg, ln *BasicBlock, br map[int64]*BasicBlock) {
    bb.termSwitch(v, ln, br)
}

func (self *CFGBuilder) IndirectBr(bb *BasicBlock, v Reg, to ...*BasicBlock) {
    bb.termIndirect(v, to)
}

func (self *CFGBuilder) Return(bb *BasicBlock, r Reg) {
    bb.termReturn(r)
}

func (self *CFGBuilder) ReturnVoid(bb *BasicBlock) {
    bb.termReturn(Rz)
}

func (self *CFGBuilder) Unreachable(bb *BasicBlock) {
    bb.termUnreachable()
}

// Build finalizes the graph: blocks without a terminator become
// unreachable-terminated, then the predecessor lists and depths are
// derived from the edges.
func (self *CFGBuilder) Build() *CFG {
    if len(self.bb) == 0 {
        return new(CFG)
    }

    /* every block must terminate */
    for _, bb := range self.bb {
        if bb.Term == nil {
            bb.termUnreachable()
        }
    }

    /* wire the graph structure */
    cfg := &CFG { Root: self.bb[0] }
    cfg.Rebuild()
    return cfg
}
