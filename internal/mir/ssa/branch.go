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

// executableSuccessors decides which successor edges of a terminator
// are executable under the current lattice knowledge. The resolve
// callback maps an operand to its lattice value, keeping this helper
// independent of the analyzer's internal tables.
//
// A conditional branch or switch whose operand is a proven constant
// contributes only the taken arm; anything less precise keeps every
// arm alive. Return and unreachable contribute nothing.
func executableSuccessors(term IrTerminator, resolve func(Reg) LatticeValue) []*BasicBlock {
    switch p := term.(type) {
        default: {
            return nil
        }

        /* unconditional jump */
        case *IrBranch: {
            return []*BasicBlock { p.To }
        }

        /* two-way conditional branch */
        case *IrCondBranch: {
            if c, ok := resolve(p.V).Const(); !ok {
                return []*BasicBlock { p.Br, p.Ln }
            } else if c != 0 {
                return []*BasicBlock { p.Br }
            } else {
                return []*BasicBlock { p.Ln }
            }
        }

        /* multi-way dispatch */
        case *IrSwitch: {
            c, ok := resolve(p.V).Const()

            /* scrutinee not a known constant, every case may fire */
            if !ok {
                ret := make([]*BasicBlock, 0, len(p.Br) + 1)
                for _, v := range p.cases() { ret = append(ret, p.Br[v]) }
                return append(ret, p.Ln)
            }

            /* take the matching case, or the default */
            if bb, ok := p.Br[c]; ok {
                return []*BasicBlock { bb }
            } else {
                return []*BasicBlock { p.Ln }
            }
        }

        /* computed jump, nothing is known about the target */
        case *IrIndirectBr: {
            return p.To
        }
    }
}
