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

/** This is an implementation of the Cooper-Harvey-Kennedy iterative
 *  dominator algorithm described in "A Simple, Fast Dominance Algorithm",
 *  https://www.cs.rice.edu/~keith/EMBED/dom.pdf
 */

package ssa

import (
    `errors`
)

var (
    ErrNoEntryBlock  = errors.New("ssa: CFG has no entry block")
    ErrNoDominators  = errors.New("ssa: dominators have not been computed")
)

// DominatorTree holds the dominance facts of one CFG. It is rebuilt
// from scratch for every function and is read-only once populated.
//
// DominatedBy maps a block to its immediate dominator; the entry block
// maps to itself, which acts as the root sentinel. DominatorOf is the
// derived child relation: B is listed under A iff idom(B) == A and
// B != A. Unreachable blocks appear in neither map.
type DominatorTree struct {
    Root              *BasicBlock
    DominatedBy       map[int]*BasicBlock
    DominatorOf       map[int][]*BasicBlock
    DominanceFrontier map[int][]*BasicBlock
    rpo               map[int]int
}

func newDominatorTree() *DominatorTree {
    return &DominatorTree {
        DominatedBy       : make(map[int]*BasicBlock),
        DominatorOf       : make(map[int][]*BasicBlock),
        DominanceFrontier : make(map[int][]*BasicBlock),
        rpo               : make(map[int]int),
    }
}

// BuildDominatorTree computes the immediate dominators and the
// dominance frontiers of every block reachable from the entry.
func BuildDominatorTree(cfg *CFG) (*DominatorTree, error) {
    dt := newDominatorTree()

    /* dominators first, frontiers depend on them */
    if err := dt.ComputeDominators(cfg); err != nil {
        return nil, err
    } else if err = dt.ComputeDominanceFrontiers(cfg); err != nil {
        return nil, err
    } else {
        return dt, nil
    }
}

// ComputeDominators assigns every reachable block its immediate
// dominator, iterating to a fixed point over the blocks in reverse
// post-order. The intersect walk compares explicit RPO numbers, not
// raw block IDs, so the result does not depend on the order in which
// the builder happened to allocate blocks.
func (self *DominatorTree) ComputeDominators(cfg *CFG) error {
    if cfg == nil || cfg.Root == nil {
        return ErrNoEntryBlock
    }

    /* number the blocks in reverse post-order */
    order := cfg.Blocks()
    for i, bb := range order {
        self.rpo[bb.Id] = i
    }

    /* the entry dominates itself, everything else starts unassigned */
    self.Root = cfg.Root
    self.DominatedBy[cfg.Root.Id] = cfg.Root

    /* iterate until no immediate dominator changes in a full pass */
    for changed := true; changed; {
        changed = false

        /* every block but the entry, in RPO */
        for _, bb := range order[1:] {
            idom := (*BasicBlock)(nil)

            /* intersect all the predecessors that already have one */
            for _, p := range bb.Pred {
                if _, ok := self.DominatedBy[p.Id]; !ok {
                    continue
                } else if idom == nil {
                    idom = p
                } else {
                    idom = self.intersect(p, idom)
                }
            }

            /* record the new immediate dominator */
            if idom != nil && self.DominatedBy[bb.Id] != idom {
                self.DominatedBy[bb.Id] = idom
                changed = true
            }
        }
    }

    /* derive the dominator tree children */
    self.DominatorOf = make(map[int][]*BasicBlock, len(order))
    for _, bb := range order {
        if p := self.DominatedBy[bb.Id]; p != nil && p != bb {
            self.DominatorOf[p.Id] = append(self.DominatorOf[p.Id], bb)
        }
    }

    /* keep the children in a stable order */
    for _, v := range self.DominatorOf {
        blocksortbyid(v)
    }
    return nil
}

// intersect walks both blocks up the current idom chains until they
// meet, advancing whichever finger sits lower in the RPO.
func (self *DominatorTree) intersect(a *BasicBlock, b *BasicBlock) *BasicBlock {
    for a != b {
        for self.rpo[a.Id] > self.rpo[b.Id] { a = self.DominatedBy[a.Id] }
        for self.rpo[b.Id] > self.rpo[a.Id] { b = self.DominatedBy[b.Id] }
    }
    return a
}

// ImmediateDominator returns the immediate dominator of the block, or
// nil when the block is unreachable. The entry block returns itself.
func (self *DominatorTree) ImmediateDominator(bb int) *BasicBlock {
    return self.DominatedBy[bb]
}

// DominatorTreeChildren returns the blocks immediately dominated by
// this one, sorted by block ID; empty for leaves and unreachable blocks.
func (self *DominatorTree) DominatorTreeChildren(bb int) []*BasicBlock {
    return self.DominatorOf[bb]
}

// Dominates reports whether a dominates b, reflexively: following the
// idom chain upwards from b reaches a before the root sentinel.
func (self *DominatorTree) Dominates(a int, b int) bool {
    p, ok := self.DominatedBy[b]

    /* unreachable blocks are dominated by nothing */
    if !ok {
        return false
    }

    /* walk the idom chain up to the root */
    for {
        if b == a {
            return true
        } else if p.Id == b {
            return false
        } else {
            b, p = p.Id, self.DominatedBy[p.Id]
        }
    }
}
