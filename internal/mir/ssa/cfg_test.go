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
    `os`
    `path/filepath`
    `testing`

    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`
)

func TestCFG_Rebuild(t *testing.T) {
    cfg, bb := buildDiamond()
    entry, a, b, join := bb[0], bb[1], bb[2], bb[3]

    /* predecessors follow the terminator edges */
    assert.Empty(t, entry.Pred)
    assert.Equal(t, []*BasicBlock { entry }, a.Pred)
    assert.Equal(t, []*BasicBlock { entry }, b.Pred)
    assert.ElementsMatch(t, []*BasicBlock { a, b }, join.Pred)

    /* depths are BFS levels from the entry */
    assert.Equal(t, 0, cfg.Depth[entry.Id])
    assert.Equal(t, 1, cfg.Depth[a.Id])
    assert.Equal(t, 1, cfg.Depth[b.Id])
    assert.Equal(t, 2, cfg.Depth[join.Id])
    assert.Equal(t, join.Id, cfg.MaxBlock())
}

func TestCFG_ParallelEdgesCollapse(t *testing.T) {
    p := CreateCFGBuilder()
    entry := p.Block()
    to := p.Block()
    v := p.LoadArg(entry, 0)

    /* two cases and the default all reach the same block */
    p.Switch(entry, v, to, map[int64]*BasicBlock { 1: to, 2: to })
    p.ReturnVoid(to)
    p.Build()

    /* a join needs two distinct predecessors, not two parallel edges */
    assert.Equal(t, []*BasicBlock { entry }, to.Pred)
}

func TestCFG_TraversalOrder(t *testing.T) {
    cfg, bb := buildDiamond()
    entry, join := bb[0], bb[3]

    /* post-order: all successors before the block itself */
    var post []*BasicBlock
    cfg.PostOrder(func(bb *BasicBlock) { post = append(post, bb) })
    require.Len(t, post, 4)
    assert.Equal(t, join, post[0])
    assert.Equal(t, entry, post[3])

    /* reverse post-order starts at the entry */
    rpo := cfg.Blocks()
    require.Len(t, rpo, 4)
    assert.Equal(t, entry, rpo[0])
    assert.Equal(t, join, rpo[3])

    /* in a DAG every edge goes forward in RPO */
    pos := make(map[int]int)
    for i, bb := range rpo {
        pos[bb.Id] = i
    }
    for _, bb := range rpo {
        for it := bb.Term.Successors(); it.Next(); {
            assert.Less(t, pos[bb.Id], pos[it.Block().Id])
        }
    }
}

func TestCFG_UnreachableExcluded(t *testing.T) {
    p := CreateCFGBuilder()
    entry := p.Block()
    dead := p.Block()
    p.ReturnVoid(entry)
    p.ReturnVoid(dead)
    cfg := p.Build()

    /* only the entry is reachable */
    assert.Equal(t, []*BasicBlock { entry }, cfg.Blocks())
    assert.NotContains(t, cfg.Depth, dead.Id)
}

func TestCFG_Stringers(t *testing.T) {
    cfg, bb := buildLoop()
    _ = cfg

    /* smoke check the IR printers used by traces and drawings */
    for _, p := range bb {
        for _, v := range p.Phi { assert.NotEmpty(t, v.String()) }
        for _, v := range p.Ins { assert.NotEmpty(t, v.String()) }
        assert.NotEmpty(t, p.Term.String())
    }
}

func TestCFG_Draw(t *testing.T) {
    cfg, _ := buildDiamond()
    fn := filepath.Join(t.TempDir(), "cfg.gv")
    drawCFG(fn, cfg)

    /* the DOT output names every block */
    buf, err := os.ReadFile(fn)
    require.NoError(t, err)
    assert.Contains(t, string(buf), "bb_0")
    assert.Contains(t, string(buf), "bb_3")
    assert.Contains(t, string(buf), "->")
}
