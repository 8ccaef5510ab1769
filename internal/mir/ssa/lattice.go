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

/** Three level lattice of compile-time knowledge about an SSA value:
 *
 *       Top        not yet analyzed
 *      / | \
 *  .. 1  2  3 ..   proven constant
 *      \ | /
 *      Bottom      proven to vary
 *
 *  Values only ever move downwards (Top -> Constant -> Bottom), which
 *  bounds every lattice cell to at most two changes and guarantees the
 *  propagation terminates.
 */

package ssa

import (
    `fmt`
)

type _LatticeTag uint8

const (
    _T_top _LatticeTag = iota
    _T_const
    _T_bottom
)

type LatticeValue struct {
    t _LatticeTag
    v int64
}

var (
    TopValue    = LatticeValue { t: _T_top }
    BottomValue = LatticeValue { t: _T_bottom }
)

func ConstValue(v int64) LatticeValue {
    return LatticeValue { t: _T_const, v: v }
}

func (self LatticeValue) IsTop() bool {
    return self.t == _T_top
}

func (self LatticeValue) IsConst() bool {
    return self.t == _T_const
}

func (self LatticeValue) IsBottom() bool {
    return self.t == _T_bottom
}

// Const returns the proven constant, if there is one.
func (self LatticeValue) Const() (int64, bool) {
    return self.v, self.t == _T_const
}

// Meet computes the greatest lower bound of the two values:
//
//      Top       ∩ any       = any
//      Bottom    ∩ any       = Bottom
//      ConstantA ∩ ConstantA = ConstantA
//      ConstantA ∩ ConstantB = Bottom
func (self LatticeValue) Meet(other LatticeValue) LatticeValue {
    switch {
        case self.IsTop()     : return other
        case other.IsTop()    : return self
        case self.IsBottom()  : return BottomValue
        case other.IsBottom() : return BottomValue
        case self == other    : return self
        default               : return BottomValue
    }
}

// Refines reports whether this value is at least as resolved as the
// other, i.e. whether a lattice cell may legally move from other to
// this during propagation.
func (self LatticeValue) Refines(other LatticeValue) bool {
    return self == other || self.t > other.t
}

func (self LatticeValue) String() string {
    switch self.t {
        case _T_top    : return "⊤"
        case _T_const  : return fmt.Sprintf("const(%d)", self.v)
        case _T_bottom : return "⊥"
        default        : panic("unreachable")
    }
}
