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

// ComputeDominanceFrontiers fills in the dominance frontier of every
// reachable block with the standard Cytron et al. construction: at
// every join point, walk each predecessor up the idom chain until the
// walk hits the join's immediate dominator, adding the join to the
// frontier of every block passed on the way.
//
// ComputeDominators must run first; the SSA construction phase consumes
// the result to decide where phi nodes are required.
func (self *DominatorTree) ComputeDominanceFrontiers(cfg *CFG) error {
    if cfg == nil || cfg.Root == nil {
        return ErrNoEntryBlock
    }

    /* frontiers are meaningless without dominators */
    if len(self.DominatedBy) == 0 {
        return ErrNoDominators
    }

    /* reset the frontier sets */
    mm := make(map[int]map[int]*BasicBlock)
    self.DominanceFrontier = make(map[int][]*BasicBlock)

    /* scan for join points */
    for _, bb := range cfg.Blocks() {
        if len(bb.Pred) < 2 {
            continue
        }

        /* walk up from every predecessor */
        for _, p := range bb.Pred {
            idom := self.DominatedBy[bb.Id]

            /* predecessors of a reachable join are reachable, but an
             * incremental builder may hand us dangling edges: skip them */
            if _, ok := self.DominatedBy[p.Id]; !ok {
                continue
            }

            /* add the join until the walk meets its idom */
            for r := p; r != idom; r = self.DominatedBy[r.Id] {
                if mm[r.Id] == nil {
                    mm[r.Id] = make(map[int]*BasicBlock)
                }
                mm[r.Id][bb.Id] = bb
            }
        }
    }

    /* flatten the sets into sorted slices */
    for id, fs := range mm {
        df := make([]*BasicBlock, 0, len(fs))
        for _, bb := range fs { df = append(df, bb) }
        blocksortbyid(df)
        self.DominanceFrontier[id] = df
    }
    return nil
}

// FrontierOf returns the dominance frontier of the block, sorted by
// block ID; empty when the block has no frontier or is unreachable.
func (self *DominatorTree) FrontierOf(bb int) []*BasicBlock {
    return self.DominanceFrontier[bb]
}
