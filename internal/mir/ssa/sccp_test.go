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
    `testing`

    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`
)

func TestSCCP_StraightLine(t *testing.T) {
    p := CreateCFGBuilder()
    entry := p.Block()
    a := p.Block()
    b := p.Block()
    t0 := p.Binary(entry, IrOpAdd, p.ConstInt(entry, 10), p.ConstInt(entry, 20))
    p.Jump(entry, a)
    t1 := p.Binary(a, IrOpMul, t0, p.ConstInt(a, 2))
    p.Jump(a, b)
    p.Return(b, t1)

    /* no branching, everything folds and everything runs */
    opt := NewSCCP(p.Build(), AnalysisConfig{})
    require.True(t, opt.Analyze())
    assert.True(t, opt.Converged())
    assert.Equal(t, ConstValue(30), opt.ValueOf(t0))
    assert.Equal(t, ConstValue(60), opt.ValueOf(t1))
    assert.True(t, opt.Executable(entry))
    assert.True(t, opt.Executable(a))
    assert.True(t, opt.Executable(b))

    /* three constants, two folded expressions */
    assert.Equal(t, 5, opt.Statistics().TotalValues)
    assert.Equal(t, 5, opt.Statistics().ConstantsFound)
}

func TestSCCP_DeadBranchPruning(t *testing.T) {
    p := CreateCFGBuilder()
    entry := p.Block()
    thenb := p.Block()
    elseb := p.Block()
    join := p.Block()
    cond := p.ConstInt(entry, 1)
    p.BranchIf(entry, cond, thenb, elseb)
    x1 := p.ConstInt(thenb, 1)
    p.Jump(thenb, join)
    x2 := p.ConstInt(elseb, 2)
    p.Jump(elseb, join)
    x := p.Phi(join, map[*BasicBlock]Reg { thenb: x1, elseb: x2 })
    p.Return(join, x)

    /* if (true) { x = 1 } else { x = 2 } */
    opt := NewSCCP(p.Build(), AnalysisConfig{})
    require.True(t, opt.Analyze())

    /* the else arm must never run */
    assert.True (t, opt.Executable(thenb))
    assert.False(t, opt.Executable(elseb))
    assert.True (t, opt.ExecutableEdge(entry, thenb))
    assert.False(t, opt.ExecutableEdge(entry, elseb))

    /* the phi only sees the live arm */
    assert.Equal(t, ConstValue(1), opt.ValueOf(x))

    /* the dead constant was never analyzed */
    assert.True(t, opt.ValueOf(x2).IsTop())
}

func TestSCCP_BranchOnParameter(t *testing.T) {
    p := CreateCFGBuilder()
    entry := p.Block()
    thenb := p.Block()
    elseb := p.Block()
    join := p.Block()
    cond := p.LoadArg(entry, 0)
    p.BranchIf(entry, cond, thenb, elseb)
    x1 := p.ConstInt(thenb, 1)
    p.Jump(thenb, join)
    x2 := p.ConstInt(elseb, 2)
    p.Jump(elseb, join)
    x := p.Phi(join, map[*BasicBlock]Reg { thenb: x1, elseb: x2 })
    p.Return(join, x)

    /* the parameter is unknowable, both arms stay alive */
    opt := NewSCCP(p.Build(), AnalysisConfig{})
    require.True(t, opt.Analyze())
    assert.True(t, opt.ValueOf(cond).IsBottom())
    assert.True(t, opt.Executable(thenb))
    assert.True(t, opt.Executable(elseb))

    /* two distinct constants merge to varying */
    assert.True(t, opt.ValueOf(x).IsBottom())
}

func TestSCCP_SwitchPruning(t *testing.T) {
    build := func(scrutinee func(p *CFGBuilder, bb *BasicBlock) Reg) (*SCCP, []*BasicBlock) {
        p := CreateCFGBuilder()
        entry := p.Block()
        b1 := p.Block()
        b2 := p.Block()
        bd := p.Block()
        v := scrutinee(p, entry)
        p.Switch(entry, v, bd, map[int64]*BasicBlock { 1: b1, 2: b2 })
        p.ReturnVoid(b1)
        p.ReturnVoid(b2)
        p.ReturnVoid(bd)
        opt := NewSCCP(p.Build(), AnalysisConfig{})
        require.True(t, opt.Analyze())
        return opt, []*BasicBlock { entry, b1, b2, bd }
    }

    /* a constant scrutinee takes exactly the matching case */
    opt, bb := build(func(p *CFGBuilder, bb *BasicBlock) Reg {
        return p.ConstInt(bb, 2)
    })
    assert.False(t, opt.Executable(bb[1]))
    assert.True (t, opt.Executable(bb[2]))
    assert.False(t, opt.Executable(bb[3]))

    /* no matching case falls through to the default */
    opt, bb = build(func(p *CFGBuilder, bb *BasicBlock) Reg {
        return p.ConstInt(bb, 7)
    })
    assert.False(t, opt.Executable(bb[1]))
    assert.False(t, opt.Executable(bb[2]))
    assert.True (t, opt.Executable(bb[3]))

    /* an unknown scrutinee keeps every case alive */
    opt, bb = build(func(p *CFGBuilder, bb *BasicBlock) Reg {
        return p.LoadArg(bb, 0)
    })
    assert.True(t, opt.Executable(bb[1]))
    assert.True(t, opt.Executable(bb[2]))
    assert.True(t, opt.Executable(bb[3]))
}

func TestSCCP_IndirectBranch(t *testing.T) {
    p := CreateCFGBuilder()
    entry := p.Block()
    b1 := p.Block()
    b2 := p.Block()
    v := p.LoadArg(entry, 0)
    p.IndirectBr(entry, v, b1, b2)
    p.ReturnVoid(b1)
    p.ReturnVoid(b2)

    /* nothing is known about a computed target */
    opt := NewSCCP(p.Build(), AnalysisConfig{})
    require.True(t, opt.Analyze())
    assert.True(t, opt.Executable(b1))
    assert.True(t, opt.Executable(b2))
}

func TestSCCP_UnfoldableOperations(t *testing.T) {
    p := CreateCFGBuilder()
    entry := p.Block()
    one := p.ConstInt(entry, 1)
    zero := p.ConstInt(entry, 0)
    div := p.Binary(entry, IrOpDiv, one, zero)
    mod := p.Binary(entry, IrOpMod, one, zero)
    shl := p.Binary(entry, IrOpShl, one, p.ConstInt(entry, 64))
    neg := p.Unary(entry, IrOpNegate, p.ConstInt(entry, 5))
    not := p.Unary(entry, IrOpNot, zero)
    p.ReturnVoid(entry)

    /* operations without a compile-time result land at Bottom */
    opt := NewSCCP(p.Build(), AnalysisConfig{})
    require.True(t, opt.Analyze())
    assert.True(t, opt.ValueOf(div).IsBottom())
    assert.True(t, opt.ValueOf(mod).IsBottom())
    assert.True(t, opt.ValueOf(shl).IsBottom())

    /* well-defined unary folds still happen */
    assert.Equal(t, ConstValue(-5), opt.ValueOf(neg))
    assert.Equal(t, ConstValue(-1), opt.ValueOf(not))
}

func TestSCCP_CallResultsVary(t *testing.T) {
    p := CreateCFGBuilder()
    entry := p.Block()
    a := p.ConstInt(entry, 3)
    r := p.Call(entry, "getchar", a)
    s := p.Binary(entry, IrOpAdd, r, a)
    p.Return(entry, s)

    /* callees are not analyzed, their results poison downstream */
    opt := NewSCCP(p.Build(), AnalysisConfig{})
    require.True(t, opt.Analyze())
    assert.True(t, opt.ValueOf(r).IsBottom())
    assert.True(t, opt.ValueOf(s).IsBottom())
}

/* entry -> head(i = φ(i0, i2)) -> {body(i2 = i + step) -> head, exit} */
func buildCountingLoop(step int64) (*CFG, []*BasicBlock, []Reg) {
    p := CreateCFGBuilder()
    entry := p.Block()
    head := p.Block()
    body := p.Block()
    exit := p.Block()
    i0 := p.ConstInt(entry, 0)
    p.Jump(entry, head)
    i := p.Phi(head, map[*BasicBlock]Reg { entry: i0 })
    cond := p.Binary(head, IrCmpLt, i, p.ConstInt(head, 10))
    p.BranchIf(head, cond, body, exit)
    i2 := p.Binary(body, IrOpAdd, i, p.ConstInt(body, step))
    p.Jump(body, head)
    p.Return(exit, i)

    /* close the loop-carried phi input */
    head.Phi[0].V[body] = regnewref(i2)
    return p.Build(), []*BasicBlock { entry, head, body, exit }, []Reg { i, cond, i2 }
}

func TestSCCP_LoopStabilizes(t *testing.T) {
    cfg, bb, regs := buildCountingLoop(0)
    opt := NewSCCP(cfg, AnalysisConfig{})
    require.True(t, opt.Analyze())

    /* i = i + 0 never moves, so the loop provably never exits */
    assert.Equal(t, ConstValue(0), opt.ValueOf(regs[0]))
    assert.Equal(t, ConstValue(1), opt.ValueOf(regs[1]))
    assert.Equal(t, ConstValue(0), opt.ValueOf(regs[2]))
    assert.True (t, opt.Executable(bb[2]))
    assert.False(t, opt.Executable(bb[3]))
}

func TestSCCP_LoopCarriedVariance(t *testing.T) {
    cfg, bb, regs := buildCountingLoop(1)
    opt := NewSCCP(cfg, AnalysisConfig{})
    require.True(t, opt.Analyze())

    /* the induction variable varies, the back edge must push the phi
     * down to Bottom and drag the condition with it */
    assert.True(t, opt.ValueOf(regs[0]).IsBottom())
    assert.True(t, opt.ValueOf(regs[1]).IsBottom())
    assert.True(t, opt.ValueOf(regs[2]).IsBottom())
    assert.True(t, opt.Executable(bb[2]))
    assert.True(t, opt.Executable(bb[3]))
}

func TestSCCP_MaxIterationsExceeded(t *testing.T) {
    p := CreateCFGBuilder()
    entry := p.Block()
    a := p.Block()
    p.Jump(entry, a)
    p.ReturnVoid(a)

    /* one transition is not enough for two blocks */
    opt := NewSCCP(p.Build(), AnalysisConfig { MaxIterations: 1 })
    assert.False(t, opt.Analyze())
    assert.False(t, opt.Converged())

    /* the verdict is sticky */
    assert.False(t, opt.Analyze())
}

func TestSCCP_AnalyzeIsIdempotent(t *testing.T) {
    cfg, _, regs := buildCountingLoop(1)
    opt := NewSCCP(cfg, AnalysisConfig{})
    require.True(t, opt.Analyze())
    it := opt.Iterations()

    /* a second call reports the cached verdict without re-running */
    require.True(t, opt.Analyze())
    assert.Equal(t, it, opt.Iterations())
    assert.True(t, opt.ValueOf(regs[0]).IsBottom())
}

func TestSCCP_EmptyCFG(t *testing.T) {
    opt := NewSCCP(new(CFG), AnalysisConfig{})
    assert.True(t, opt.Analyze())
    assert.Equal(t, 0, opt.Statistics().TotalValues)
    assert.Equal(t, 0, opt.Iterations())
}

type _TraceBuffer struct {
    lines []string
}

func (self *_TraceBuffer) Tracef(format string, args ...interface{}) {
    self.lines = append(self.lines, fmt.Sprintf(format, args...))
}

func TestSCCP_VerboseTracing(t *testing.T) {
    buf := new(_TraceBuffer)
    p := CreateCFGBuilder()
    entry := p.Block()
    t0 := p.Binary(entry, IrOpAdd, p.ConstInt(entry, 2), p.ConstInt(entry, 3))
    p.Return(entry, t0)

    /* traces land in the injected sink, not on a global stream */
    opt := NewSCCP(p.Build(), AnalysisConfig { Verbose: true, Log: buf })
    require.True(t, opt.Analyze())
    assert.Equal(t, ConstValue(5), opt.ValueOf(t0))
    assert.NotEmpty(t, buf.lines)
}

func TestSCCP_StatisticsMatchLattice(t *testing.T) {
    for _, step := range []int64 { 0, 1 } {
        cfg, _, _ := buildCountingLoop(step)
        opt := NewSCCP(cfg, AnalysisConfig{})
        require.True(t, opt.Analyze())

        /* the counters must agree with the final lattice */
        nc := 0
        for _, v := range opt.Lattice() {
            if v.IsConst() {
                nc++
            }
        }
        assert.Equal(t, nc, opt.Statistics().ConstantsFound)
        assert.Equal(t, len(opt.Lattice()), opt.Statistics().TotalValues)
    }
}
