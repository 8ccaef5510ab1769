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
    `sort`
    `strings`
)

// IrSuccessors iterates over the successors of a terminator. Value
// reports the switch case value selecting the current edge, if any.
type IrSuccessors interface {
    Next() bool
    Block() *BasicBlock
    Value() (int64, bool)
}

type IrTerminator interface {
    IrNode
    Successors() IrSuccessors
    irterminator()
}

func (*IrBranch)      irnode() {}
func (*IrCondBranch)  irnode() {}
func (*IrSwitch)      irnode() {}
func (*IrIndirectBr)  irnode() {}
func (*IrReturn)      irnode() {}
func (*IrUnreachable) irnode() {}

func (*IrBranch)      irterminator() {}
func (*IrCondBranch)  irterminator() {}
func (*IrSwitch)      irterminator() {}
func (*IrIndirectBr)  irterminator() {}
func (*IrReturn)      irterminator() {}
func (*IrUnreachable) irterminator() {}

type _SuccIter struct {
    i int
    k []int64
    t []bool
    b []*BasicBlock
}

func (self *_SuccIter) Next() bool {
    self.i++
    return self.i < len(self.b)
}

func (self *_SuccIter) Block() *BasicBlock {
    return self.b[self.i]
}

func (self *_SuccIter) Value() (int64, bool) {
    if self.i >= len(self.k) || !self.t[self.i] {
        return 0, false
    } else {
        return self.k[self.i], true
    }
}

func succiter(bb ...*BasicBlock) *_SuccIter {
    return &_SuccIter { i: -1, b: bb }
}

func (self *_SuccIter) addValue(v int64, bb *BasicBlock) {
    self.k = append(self.k, v)
    self.t = append(self.t, true)
    self.b = append(self.b, bb)
}

func (self *_SuccIter) addBlock(bb *BasicBlock) {
    self.k = append(self.k, 0)
    self.t = append(self.t, false)
    self.b = append(self.b, bb)
}

type IrBranch struct {
    To *BasicBlock
}

func (self *IrBranch) String() string {
    return fmt.Sprintf("goto bb_%d", self.To.Id)
}

func (self *IrBranch) Successors() IrSuccessors {
    return succiter(self.To)
}

// IrCondBranch transfers to Br when the condition is non-zero, to Ln
// otherwise.
type IrCondBranch struct {
    V  Reg
    Br *BasicBlock
    Ln *BasicBlock
}

func (self *IrCondBranch) String() string {
    return fmt.Sprintf("if %s goto bb_%d else bb_%d", self.V, self.Br.Id, self.Ln.Id)
}

func (self *IrCondBranch) Usages() []*Reg {
    return []*Reg { &self.V }
}

func (self *IrCondBranch) Successors() IrSuccessors {
    it := succiter()
    it.addValue(1, self.Br)
    it.addValue(0, self.Ln)
    return it
}

// IrSwitch dispatches on the scrutinee value, falling back to Ln when
// no case matches.
type IrSwitch struct {
    V  Reg
    Ln *BasicBlock
    Br map[int64]*BasicBlock
}

func (self *IrSwitch) String() string {
    nb := len(self.Br)
    ret := make([]string, 0, nb)

    /* add each case */
    for _, v := range self.cases() {
        ret = append(ret, fmt.Sprintf("  %d => bb_%d,", v, self.Br[v].Id))
    }

    /* default branch */
    ret = append(ret, fmt.Sprintf(
        "  _ => bb_%d,",
        self.Ln.Id,
    ))

    /* join them together */
    return fmt.Sprintf(
        "switch %s {\n%s\n}",
        self.V,
        strings.Join(ret, "\n"),
    )
}

func (self *IrSwitch) cases() []int64 {
    ks := make([]int64, 0, len(self.Br))
    for v := range self.Br { ks = append(ks, v) }
    sort.Slice(ks, func(i int, j int) bool { return ks[i] < ks[j] })
    return ks
}

func (self *IrSwitch) Usages() []*Reg {
    return []*Reg { &self.V }
}

func (self *IrSwitch) Successors() IrSuccessors {
    it := succiter()
    for _, v := range self.cases() { it.addValue(v, self.Br[v]) }
    it.addBlock(self.Ln)
    return it
}

// IrIndirectBr jumps to a computed address; every listed target must be
// assumed reachable.
type IrIndirectBr struct {
    V  Reg
    To []*BasicBlock
}

func (self *IrIndirectBr) String() string {
    nb := len(self.To)
    ret := make([]string, 0, nb)

    /* dump possible targets */
    for _, bb := range self.To {
        ret = append(ret, fmt.Sprintf("bb_%d", bb.Id))
    }

    /* join them together */
    return fmt.Sprintf(
        "goto *%s in [%s]",
        self.V,
        strings.Join(ret, ", "),
    )
}

func (self *IrIndirectBr) Usages() []*Reg {
    return []*Reg { &self.V }
}

func (self *IrIndirectBr) Successors() IrSuccessors {
    return succiter(self.To...)
}

type IrReturn struct {
    R Reg
}

func (self *IrReturn) String() string {
    if !self.R.Valid() {
        return "ret"
    } else {
        return fmt.Sprintf("ret %s", self.R)
    }
}

func (self *IrReturn) Usages() []*Reg {
    if !self.R.Valid() {
        return nil
    } else {
        return []*Reg { &self.R }
    }
}

func (self *IrReturn) Successors() IrSuccessors {
    return succiter()
}

type IrUnreachable struct{}

func (*IrUnreachable) String() string {
    return "unreachable"
}

func (*IrUnreachable) Successors() IrSuccessors {
    return succiter()
}
