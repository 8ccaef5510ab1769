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

/** Sparse Conditional Constant Propagation, as described in
 *  Mark N. Wegman, F. Kenneth Zadeck: Constant Propagation with
 *  Conditional Branches, TOPLAS 1991.
 *
 *  Constant facts are propagated only along CFG edges already proven
 *  executable, so a branch whose condition folds to a constant keeps
 *  its dead arm out of the analysis entirely. Two worklists drive the
 *  fixed point: executable edges, and instructions whose operands'
 *  lattice values changed since their last evaluation.
 */

package ssa

import (
    `math`
)

const _DefaultMaxIterations = 65536

// AnalysisConfig configures one SCCP instance. MaxIterations bounds the
// number of worklist transitions as a safety valve against pathological
// inputs; zero selects the default cap. Verbose routes per-transition
// traces into Log.
type AnalysisConfig struct {
    MaxIterations int
    Verbose       bool
    Log           Logger
}

// OptimizationStatistics summarizes one finished run.
type OptimizationStatistics struct {
    ConstantsFound int
    TotalValues    int
}

type _ValueOrigin uint8

const (
    _V_computed _ValueOrigin = iota
    _V_parameter
    _V_external
)

type _AnalyzerState uint8

const (
    _S_ready _AnalyzerState = iota
    _S_running
    _S_converged
    _S_exceeded
)

// SCCP runs sparse conditional constant propagation over one function.
// An instance is single-use and single-goroutine: construct, Analyze,
// then read the results. Independent instances over different CFGs may
// run in parallel, they share nothing.
type SCCP struct {
    it    int
    cfg   *CFG
    cc    AnalysisConfig
    st    _AnalyzerState
    fq    *_EdgeQueue
    sq    *_InsQueue
    exe   *_ExecState
    lat   map[Reg]LatticeValue
    org   map[Reg]_ValueOrigin
    use   map[Reg][]_InsRef
    ctl   map[Reg][]*BasicBlock
    stats OptimizationStatistics
}

func NewSCCP(cfg *CFG, cc AnalysisConfig) *SCCP {
    self := &SCCP {
        cfg : cfg,
        cc  : cc,
        fq  : newEdgeQueue(),
        sq  : newInsQueue(),
        exe : newExecState(),
        lat : make(map[Reg]LatticeValue),
        org : make(map[Reg]_ValueOrigin),
        use : make(map[Reg][]_InsRef),
        ctl : make(map[Reg][]*BasicBlock),
    }
    self.init()
    return self
}

func (self *SCCP) init() {
    if self.cfg == nil || self.cfg.Root == nil {
        self.st = _S_converged
        return
    }

    /* seed the lattice and build the def-use chains */
    for _, bb := range self.cfg.Blocks() {
        for i, p := range bb.Phi {
            self.define(p)
            self.defuses(_InsRef { bb: bb, phi: true, i: i }, p)
        }
        for i, p := range bb.Ins {
            self.define(p)
            if u, ok := p.(IrUsages); ok {
                self.defuses(_InsRef { bb: bb, i: i }, u)
            }
        }
        if u, ok := bb.Term.(IrUsages); ok {
            for _, r := range u.Usages() {
                self.ctl[*r] = append(self.ctl[*r], bb)
            }
        }
    }

    /* every result-producing instruction owns one lattice cell */
    self.stats.TotalValues = len(self.lat)

    /* the entry block is executable by definition; a self-edge on it
     * bootstraps the flow worklist */
    e := _FlowEdge { bb: self.cfg.Root, to: self.cfg.Root }
    self.exe.markEdge(e)
    self.fq.push(e)
}

// define seeds the lattice cell of every result the instruction
// produces. Ordinary results start at Top, optimistically unknown.
// Function parameters and call results cannot be reasoned about inside
// this function, so they start at Bottom and are pinned there: leaving
// them at Top would let the meet over a phi treat them as "any value",
// yielding unsound constants.
func (self *SCCP) define(v IrNode) {
    var vo _ValueOrigin
    var vd IrDefinitions

    /* instructions without results own no lattice cell */
    if d, ok := v.(IrDefinitions); !ok {
        return
    } else {
        vd = d
    }

    /* classify the value origin */
    switch v.(type) {
        case *IrLoadArg : vo = _V_parameter
        case *IrCall    : vo = _V_external
        default         : vo = _V_computed
    }

    /* seed every defined value */
    for _, r := range vd.Definitions() {
        if self.org[*r] = vo; vo == _V_computed {
            self.lat[*r] = TopValue
        } else {
            self.lat[*r] = BottomValue
        }
    }
}

func (self *SCCP) defuses(ref _InsRef, u IrUsages) {
    for _, r := range u.Usages() {
        self.use[*r] = append(self.use[*r], ref)
    }
}

// Analyze drives both worklists to exhaustion and reports whether the
// pass converged. A false return means the iteration cap was exceeded
// and the lattice results must not be trusted for optimization. Once
// finished, further calls return the same verdict without re-running.
func (self *SCCP) Analyze() bool {
    switch self.st {
        case _S_converged : return true
        case _S_exceeded  : return false
    }

    /* resolve the iteration cap */
    max := self.cc.MaxIterations
    self.st = _S_running

    /* zero picks the default safety valve */
    if max <= 0 {
        max = _DefaultMaxIterations
    }

    /* drain both worklists, edges first */
    for !self.fq.empty() || !self.sq.empty() {
        if self.it++; self.it > max {
            self.st = _S_exceeded
            self.tracef("sccp: iteration cap %d exceeded, results are unusable", max)
            return false
        }

        /* flow step: a newly executable edge */
        if !self.fq.empty() {
            self.visitEdge(self.fq.pop())
            continue
        }

        /* SSA step: one instruction whose operands changed */
        self.visitIns(self.sq.pop())
    }

    /* both queues empty, the lattice is stable */
    self.st = _S_converged
    self.tracef("sccp: converged after %d iterations, %s", self.it, self.dump())
    return true
}

func (self *SCCP) visitEdge(e _FlowEdge) {
    first := self.exe.markBlock(e.to.Id)
    self.tracef("sccp: edge %s is executable", e)

    /* phi nodes re-evaluate whenever a new edge arrives, their meet
     * may now include one more operand */
    for i := range e.to.Phi {
        self.evalIns(_InsRef { bb: e.to, phi: true, i: i })
    }

    /* the block body and terminator only on first reach; later value
     * changes come back through the def-use chains */
    if first {
        for i := range e.to.Ins {
            self.evalIns(_InsRef { bb: e.to, i: i })
        }
        self.visitTerminator(e.to)
    }
}

func (self *SCCP) visitIns(ref _InsRef) {
    if self.exe.block(ref.bb.Id) {
        self.evalIns(ref)
    }
}

func (self *SCCP) evalIns(ref _InsRef) {
    switch p := ref.ins().(type) {
        /* not modeled by this pass, anything it defines varies */
        default: {
            if def, ok := p.(IrDefinitions); ok {
                for _, r := range def.Definitions() {
                    self.update(*r, BottomValue)
                }
            }
        }

        /* constants and opaque values */
        case *IrConstInt : self.update(p.R, ConstValue(p.V))
        case *IrLoadArg  : self.update(p.R, BottomValue)
        case *IrCall     : self.update(p.R, BottomValue)

        /* arithmetics over the operand lattice values */
        case *IrPhi        : self.update(p.R, self.meet(ref.bb, p))
        case *IrUnaryExpr  : self.update(p.R, self.evalUnary(p))
        case *IrBinaryExpr : self.update(p.R, self.evalBinary(p))
    }
}

// meet folds the incoming values of a phi node, considering only the
// operands whose source edge is already proven executable. This is the
// "sparse" in SCCP: a dead arm of a branch never pollutes the merge.
func (self *SCCP) meet(bb *BasicBlock, p *IrPhi) LatticeValue {
    ret := TopValue
    for pred, r := range p.V {
        if self.exe.edge(_FlowEdge { bb: pred, to: bb }) {
            ret = ret.Meet(self.valueOf(*r))
        }
    }
    return ret
}

func (self *SCCP) evalUnary(p *IrUnaryExpr) LatticeValue {
    x := self.valueOf(p.V)

    /* fold over a constant operand */
    if v, ok := x.Const(); ok {
        switch p.Op {
            case IrOpNegate : return ConstValue(-v)
            case IrOpNot    : return ConstValue(^v)
            default         : return BottomValue
        }
    }

    /* Bottom poisons, Top stays optimistic */
    if x.IsBottom() {
        return BottomValue
    } else {
        return TopValue
    }
}

func (self *SCCP) evalBinary(p *IrBinaryExpr) LatticeValue {
    x := self.valueOf(p.X)
    y := self.valueOf(p.Y)

    /* any Bottom operand makes the result vary */
    if x.IsBottom() || y.IsBottom() {
        return BottomValue
    }

    /* both operands must be known to fold */
    a, ok1 := x.Const()
    b, ok2 := y.Const()

    /* at least one Top, wait for more facts */
    if !ok1 || !ok2 {
        return TopValue
    }

    /* fold, or give up on operations without a compile-time result */
    if v, ok := foldBinary(a, b, p.Op); ok {
        return ConstValue(v)
    } else {
        return BottomValue
    }
}

// foldBinary evaluates the operator over two proven constants. The
// false return marks operations with no defined compile-time result:
// division or remainder by zero, the INT64_MIN / -1 overflow, and
// shifts outside of [0, 63].
func foldBinary(x int64, y int64, op IrBinaryOp) (int64, bool) {
    switch op {
        case IrOpAdd : return x + y, true
        case IrOpSub : return x - y, true
        case IrOpMul : return x * y, true
        case IrOpDiv : if y == 0 || (x == math.MinInt64 && y == -1) { return 0, false } else { return x / y, true }
        case IrOpMod : if y == 0 || (x == math.MinInt64 && y == -1) { return 0, false } else { return x % y, true }
        case IrOpAnd : return x & y, true
        case IrOpOr  : return x | y, true
        case IrOpXor : return x ^ y, true
        case IrOpShl : if y < 0 || y > 63 { return 0, false } else { return x << uint64(y), true }
        case IrOpShr : if y < 0 || y > 63 { return 0, false } else { return x >> uint64(y), true }
        case IrCmpEq : return bool2i64(x == y), true
        case IrCmpNe : return bool2i64(x != y), true
        case IrCmpLt : return bool2i64(x <  y), true
        case IrCmpLe : return bool2i64(x <= y), true
        case IrCmpGt : return bool2i64(x >  y), true
        case IrCmpGe : return bool2i64(x >= y), true
        default      : return 0, false
    }
}

func bool2i64(v bool) int64 {
    if v {
        return 1
    } else {
        return 0
    }
}

// valueOf resolves an operand to its current lattice value. A name with
// no cell was defined outside of the analyzed function, which is the
// definition of "varies".
func (self *SCCP) valueOf(r Reg) LatticeValue {
    if v, ok := self.lat[r]; ok {
        return v
    } else {
        return BottomValue
    }
}

// update lowers the stored lattice value of r. The move is clamped to
// the meet of the old and new values, so a cell can only travel
// downwards (Top -> Constant -> Bottom) no matter what the evaluation
// produced; this monotonicity is what terminates the fixed point. On a
// real change every known user is re-enqueued on the SSA worklist and
// every terminator conditioned on r is re-examined.
func (self *SCCP) update(r Reg, v LatticeValue) {
    old, ok := self.lat[r]

    /* pinned cells (parameters, call results) never move */
    if !ok || self.org[r] != _V_computed {
        return
    }

    /* clamp to a monotone transition */
    next := old.Meet(v)
    if next == old {
        return
    }

    /* commit and account */
    self.lat[r] = next
    self.tracef("sccp: %s: %s -> %s", r, old, next)

    /* a cell entering Const is a found constant, one leaving it is not */
    if next.IsConst() {
        self.stats.ConstantsFound++
    } else if old.IsConst() {
        self.stats.ConstantsFound--
    }

    /* re-enqueue the users inside executable blocks; the others get
     * their first evaluation when their block becomes executable */
    for _, use := range self.use[r] {
        if self.exe.block(use.bb.Id) {
            self.sq.push(use)
        }
    }

    /* terminators using r may now prove more edges executable */
    for _, bb := range self.ctl[r] {
        if self.exe.block(bb.Id) {
            self.visitTerminator(bb)
        }
    }
}

// visitTerminator marks the executable successor edges of a block.
// Marking is idempotent: an already-known edge is never re-enqueued.
func (self *SCCP) visitTerminator(bb *BasicBlock) {
    if bb.Term == nil {
        return
    }

    /* delegate the decision to the branch evaluator */
    for _, to := range executableSuccessors(bb.Term, self.valueOf) {
        if to == nil {
            continue
        }
        if e := (_FlowEdge { bb: bb, to: to }); self.exe.markEdge(e) {
            self.fq.push(e)
        }
    }
}

// Converged reports whether the last Analyze call reached a fixed point.
func (self *SCCP) Converged() bool {
    return self.st == _S_converged
}

// Iterations returns the number of worklist transitions performed.
func (self *SCCP) Iterations() int {
    return self.it
}

// ValueOf returns the final lattice value of an SSA name.
func (self *SCCP) ValueOf(r Reg) LatticeValue {
    return self.valueOf(r)
}

// Lattice exposes the final lattice map. The map is owned by the
// analyzer and must be treated as read-only.
func (self *SCCP) Lattice() map[Reg]LatticeValue {
    return self.lat
}

// Executable reports whether the block was proven reachable.
func (self *SCCP) Executable(bb *BasicBlock) bool {
    return bb != nil && self.exe.block(bb.Id)
}

// ExecutableEdge reports whether the directed edge was proven
// executable.
func (self *SCCP) ExecutableEdge(from *BasicBlock, to *BasicBlock) bool {
    return from != nil && to != nil && self.exe.edge(_FlowEdge { bb: from, to: to })
}

// Statistics returns the run counters.
func (self *SCCP) Statistics() OptimizationStatistics {
    return self.stats
}
