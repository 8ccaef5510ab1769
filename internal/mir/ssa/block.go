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

type BasicBlock struct {
    Id   int
    Phi  []*IrPhi
    Ins  []IrNode
    Term IrTerminator
    Pred []*BasicBlock
}

func (self *BasicBlock) addInstr(p IrNode) {
    if _, ok := p.(IrTerminator); ok {
        panic("terminators must be set with a term* method")
    } else if v, ok := p.(*IrPhi); ok {
        self.Phi = append(self.Phi, v)
    } else {
        self.Ins = append(self.Ins, p)
    }
}

func (self *BasicBlock) termBranch(to *BasicBlock) {
    self.Term = &IrBranch { To: to }
}

func (self *BasicBlock) termCondition(v Reg, t *BasicBlock, f *BasicBlock) {
    self.Term = &IrCondBranch { V: v, Br: t, Ln: f }
}

func (self *BasicBlock) termSwitch(v Reg, ln *BasicBlock, br map[int64]*BasicBlock) {
    self.Term = &IrSwitch { V: v, Ln: ln, Br: br }
}

func (self *BasicBlock) termIndirect(v Reg, to []*BasicBlock) {
    self.Term = &IrIndirectBr { V: v, To: to }
}

func (self *BasicBlock) termReturn(r Reg) {
    self.Term = &IrReturn { R: r }
}

func (self *BasicBlock) termUnreachable() {
    self.Term = &IrUnreachable{}
}
