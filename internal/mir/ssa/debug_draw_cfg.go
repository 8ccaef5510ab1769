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
    `os`
    `strings`

    `gonum.org/v1/gonum/graph`
    `gonum.org/v1/gonum/graph/encoding`
    `gonum.org/v1/gonum/graph/encoding/dot`
    `gonum.org/v1/gonum/graph/simple`
)

type _DotBlock struct {
    bb *BasicBlock
}

func (self _DotBlock) ID() int64 {
    return int64(self.bb.Id)
}

func (self _DotBlock) DOTID() string {
    return fmt.Sprintf("bb_%d", self.bb.Id)
}

func (self _DotBlock) Attributes() []encoding.Attribute {
    nb := len(self.bb.Phi) + len(self.bb.Ins) + 2
    buf := make([]string, 0, nb)

    /* block header, phi nodes, body, then terminator */
    buf = append(buf, fmt.Sprintf("bb_%d:", self.bb.Id))
    for _, p := range self.bb.Phi { buf = append(buf, p.String()) }
    for _, p := range self.bb.Ins { buf = append(buf, p.String()) }
    buf = append(buf, self.bb.Term.String())

    /* one left-aligned line each */
    return []encoding.Attribute {
        { Key: "shape", Value: "box" },
        { Key: "label", Value: strings.Join(buf, "\\l") + "\\l" },
    }
}

type _DotEdge struct {
    f _DotBlock
    t _DotBlock
    v string
}

func (self _DotEdge) From() graph.Node         { return self.f }
func (self _DotEdge) To() graph.Node           { return self.t }
func (self _DotEdge) ReversedEdge() graph.Edge { return _DotEdge { f: self.t, t: self.f, v: self.v } }

func (self _DotEdge) Attributes() []encoding.Attribute {
    if self.v == "" {
        return nil
    } else {
        return []encoding.Attribute {{ Key: "label", Value: self.v }}
    }
}

// drawCFG renders the graph in Graphviz DOT format. This is a debug
// facility, it panics on I/O errors rather than returning them.
func drawCFG(fn string, cfg *CFG) {
    g := simple.NewDirectedGraph()

    /* add every reachable block */
    cfg.PostOrder(func(bb *BasicBlock) {
        g.AddNode(_DotBlock { bb: bb })
    })

    /* add the terminator edges */
    cfg.PostOrder(func(bb *BasicBlock) {
        for it := bb.Term.Successors(); it.Next(); {
            to := it.Block()

            /* self loops cannot be represented in a simple graph */
            if to.Id == bb.Id {
                continue
            }

            /* label the edge with its selecting value, if any */
            e := _DotEdge { f: _DotBlock { bb: bb }, t: _DotBlock { bb: to } }
            if v, ok := it.Value(); ok {
                e.v = fmt.Sprintf("%d", v)
            }
            g.SetEdge(e)
        }
    })

    /* render and write out */
    buf, err := dot.Marshal(g, "CFG", "", "    ")
    if err != nil {
        panic(err)
    }
    if err = os.WriteFile(fn, buf, 0644); err != nil {
        panic(err)
    }
}
