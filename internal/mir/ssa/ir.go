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

// Reg is an SSA value name. Every result-producing instruction defines
// exactly one Reg, assigned densely by the CFG builder; the name never
// changes afterwards, so it doubles as the instruction's identity in
// every analysis-side table.
type Reg uint32

const Rz Reg = ^Reg(0)

func (self Reg) Valid() bool {
    return self != Rz
}

func (self Reg) String() string {
    if self == Rz {
        return "%?"
    } else {
        return fmt.Sprintf("%%%d", uint32(self))
    }
}

type IrNode interface {
    fmt.Stringer
    irnode()
}

func (*IrPhi)        irnode() {}
func (*IrCall)       irnode() {}
func (*IrConstInt)   irnode() {}
func (*IrLoadArg)    irnode() {}
func (*IrUnaryExpr)  irnode() {}
func (*IrBinaryExpr) irnode() {}

type IrUsages interface {
    IrNode
    Usages() []*Reg
}

type IrDefinitions interface {
    IrNode
    Definitions() []*Reg
}

// IrPhi selects one of the incoming values depending on which
// predecessor the control arrived from.
type IrPhi struct {
    R Reg
    V map[*BasicBlock]*Reg
}

func (self *IrPhi) String() string {
    nb := len(self.V)
    ret := make([]string, 0, nb)
    phi := make([]struct{b int; r Reg}, 0, nb)

    /* add each path */
    for bb, reg := range self.V {
        phi = append(phi, struct{b int; r Reg}{b: bb.Id, r: *reg})
    }

    /* sort by basic block ID */
    sort.Slice(phi, func(i int, j int) bool {
        return phi[i].b < phi[j].b
    })

    /* dump as string */
    for _, p := range phi {
        ret = append(ret, fmt.Sprintf("bb_%d: %s", p.b, p.r))
    }

    /* join them together */
    return fmt.Sprintf(
        "%s = φ(%s)",
        self.R,
        strings.Join(ret, ", "),
    )
}

func (self *IrPhi) Usages() (r []*Reg) {
    r = make([]*Reg, 0, len(self.V))
    for _, v := range self.V { r = append(r, v) }
    return
}

func (self *IrPhi) Definitions() []*Reg {
    return []*Reg { &self.R }
}

type IrConstInt struct {
    R Reg
    V int64
}

func (self *IrConstInt) String() string {
    return fmt.Sprintf("%s = const.i64 %d", self.R, self.V)
}

func (self *IrConstInt) Definitions() []*Reg {
    return []*Reg { &self.R }
}

// IrLoadArg loads a function parameter. Its runtime value is unknowable
// at compile time, so constant propagation pins the result at Bottom.
type IrLoadArg struct {
    R  Reg
    Id uint64
}

func (self *IrLoadArg) String() string {
    return fmt.Sprintf("%s = load.arg(#%d)", self.R, self.Id)
}

func (self *IrLoadArg) Definitions() []*Reg {
    return []*Reg { &self.R }
}

type (
    IrUnaryOp  uint8
    IrBinaryOp uint8
)

const (
    IrOpNegate IrUnaryOp = iota
    IrOpNot
)

const (
    IrOpAdd IrBinaryOp = iota
    IrOpSub
    IrOpMul
    IrOpDiv
    IrOpMod
    IrOpAnd
    IrOpOr
    IrOpXor
    IrOpShl
    IrOpShr
    IrCmpEq
    IrCmpNe
    IrCmpLt
    IrCmpLe
    IrCmpGt
    IrCmpGe
)

func (self IrUnaryOp) String() string {
    switch self {
        case IrOpNegate : return "-"
        case IrOpNot    : return "~"
        default         : panic("unreachable")
    }
}

func (self IrBinaryOp) String() string {
    switch self {
        case IrOpAdd : return "+"
        case IrOpSub : return "-"
        case IrOpMul : return "*"
        case IrOpDiv : return "/"
        case IrOpMod : return "%"
        case IrOpAnd : return "&"
        case IrOpOr  : return "|"
        case IrOpXor : return "^"
        case IrOpShl : return "<<"
        case IrOpShr : return ">>"
        case IrCmpEq : return "=="
        case IrCmpNe : return "!="
        case IrCmpLt : return "<"
        case IrCmpLe : return "<="
        case IrCmpGt : return ">"
        case IrCmpGe : return ">="
        default      : panic("unreachable")
    }
}

type IrUnaryExpr struct {
    R  Reg
    V  Reg
    Op IrUnaryOp
}

func (self *IrUnaryExpr) String() string {
    return fmt.Sprintf("%s = %s %s", self.R, self.Op, self.V)
}

func (self *IrUnaryExpr) Usages() []*Reg {
    return []*Reg { &self.V }
}

func (self *IrUnaryExpr) Definitions() []*Reg {
    return []*Reg { &self.R }
}

type IrBinaryExpr struct {
    R  Reg
    X  Reg
    Y  Reg
    Op IrBinaryOp
}

func (self *IrBinaryExpr) String() string {
    return fmt.Sprintf("%s = %s %s %s", self.R, self.X, self.Op, self.Y)
}

func (self *IrBinaryExpr) Usages() []*Reg {
    return []*Reg { &self.X, &self.Y }
}

func (self *IrBinaryExpr) Definitions() []*Reg {
    return []*Reg { &self.R }
}

// IrCall invokes a function outside of the current one. The callee is
// not analyzed, so the result is never assumed constant.
type IrCall struct {
    R  Reg
    Fn string
    In []Reg
}

func (self *IrCall) String() string {
    nb := len(self.In)
    in := make([]string, 0, nb)

    /* dump arguments */
    for _, r := range self.In {
        in = append(in, r.String())
    }

    /* join them together */
    return fmt.Sprintf(
        "%s = call %s(%s)",
        self.R,
        self.Fn,
        strings.Join(in, ", "),
    )
}

func (self *IrCall) Usages() []*Reg {
    return regsliceref(self.In)
}

func (self *IrCall) Definitions() []*Reg {
    return []*Reg { &self.R }
}
