package cluster

import (
	"errors"
	"log/slog"

	"github.com/katalvlaran/orienteering/op"
)

// Point labels used during expansion.
const (
	labelUnvisited = -2
	labelNoise     = -1
)

// ErrBadParams is returned when the radius is not positive or MinPts < 2.
var ErrBadParams = errors.New("cluster: radius must be positive and min pts at least 2")

// Cluster is one density-connected vertex group.
type Cluster struct {
	// Vertices are the member ids, ascending.
	Vertices []int
	// Centroid is the prize-weighted mean of the member coordinates.
	Centroid op.Point
	// Prize is the summed prize of the members.
	Prize float64
}

// Clustering is the result of one DBSCAN run over a graph.
type Clustering struct {
	g *op.Graph

	// Clusters are the groups of size ≥ MinPts, in discovery order.
	Clusters []Cluster
	// Noise lists reachable non-depot vertices assigned to no cluster.
	Noise []int
	// Radius and MinPts are the parameters the run used.
	Radius float64
	MinPts int

	member []int // vertex id → cluster index, −1 when none
}

// Run executes DBSCAN with the given parameters.
func Run(g *op.Graph, radius float64, minPts int) (*Clustering, error) {
	if radius <= 0 || minPts < 2 {
		return nil, ErrBadParams
	}

	n := g.NumVertices()
	labels := make([]int, n)
	var v int
	for v = 0; v < n; v++ {
		if v == 0 || !g.IsReachable(v) {
			labels[v] = labelNoise
			continue
		}
		labels[v] = labelUnvisited
	}

	// Neighborhood of v: reachable non-depot vertices within the radius,
	// v itself included (it is within distance 0 of itself).
	neighborhood := func(v int) []int {
		pts := g.WithinRadius(g.Coord(v), radius)
		out := make([]int, 0, len(pts))
		for _, p := range pts {
			if g.IsReachable(p.V) {
				out = append(out, p.V)
			}
		}
		return out
	}

	next := 0
	for v = 0; v < n; v++ {
		if labels[v] != labelUnvisited {
			continue
		}
		nbrs := neighborhood(v)
		if len(nbrs) < minPts {
			labels[v] = labelNoise
			continue
		}

		labels[v] = next
		queue := append([]int(nil), nbrs...)
		for qi := 0; qi < len(queue); qi++ {
			q := queue[qi]
			if labels[q] == labelNoise && q != 0 && g.IsReachable(q) {
				labels[q] = next // border point
				continue
			}
			if labels[q] != labelUnvisited {
				continue
			}
			labels[q] = next
			qn := neighborhood(q)
			if len(qn) >= minPts {
				queue = append(queue, qn...)
			}
		}
		next++
	}

	return assemble(g, labels, radius, minPts, next), nil
}

func assemble(g *op.Graph, labels []int, radius float64, minPts, nClusters int) *Clustering {
	c := &Clustering{
		g:      g,
		Radius: radius,
		MinPts: minPts,
		member: make([]int, g.NumVertices()),
	}
	raw := make([]Cluster, nClusters)

	var v int
	for v = 0; v < g.NumVertices(); v++ {
		c.member[v] = -1
		if v == 0 || !g.IsReachable(v) {
			continue
		}
		if labels[v] >= 0 {
			raw[labels[v]].Vertices = append(raw[labels[v]].Vertices, v)
			raw[labels[v]].Prize += g.Prize(v)
		}
	}

	// A cluster can end up below MinPts when its border points were claimed
	// by an earlier expansion; demote such remnants to noise.
	keep := make([]int, nClusters)
	for i := range raw {
		keep[i] = -1
		if len(raw[i].Vertices) >= minPts {
			keep[i] = len(c.Clusters)
			c.Clusters = append(c.Clusters, raw[i])
		}
	}
	for v = 0; v < g.NumVertices(); v++ {
		if v == 0 || !g.IsReachable(v) {
			continue
		}
		if labels[v] >= 0 && keep[labels[v]] >= 0 {
			c.member[v] = keep[labels[v]]
			continue
		}
		c.Noise = append(c.Noise, v)
	}

	for i := range c.Clusters {
		cl := &c.Clusters[i]
		var cx, cy, wsum float64
		for _, v = range cl.Vertices {
			w := g.Prize(v)
			cx += w * g.Coord(v).X
			cy += w * g.Coord(v).Y
			wsum += w
		}
		if wsum > 0 {
			cl.Centroid = op.Point{X: cx / wsum, Y: cy / wsum}
		} else {
			// All-zero prizes: fall back to the plain mean.
			for _, v = range cl.Vertices {
				cl.Centroid.X += g.Coord(v).X
				cl.Centroid.Y += g.Coord(v).Y
			}
			cl.Centroid.X /= float64(len(cl.Vertices))
			cl.Centroid.Y /= float64(len(cl.Vertices))
		}
	}

	slog.Debug("dbscan finished",
		slog.Int("clusters", len(c.Clusters)),
		slog.Int("noise", len(c.Noise)),
		slog.Float64("radius", radius),
		slog.Int("min_pts", minPts))
	return c
}

// Graph returns the graph the clustering was computed on.
func (c *Clustering) Graph() *op.Graph { return c.g }

// NumClusters returns the number of clusters.
func (c *Clustering) NumClusters() int { return len(c.Clusters) }

// ClusterOf returns the cluster index of v, or −1 when v is noise, the
// depot, or unreachable.
func (c *Clustering) ClusterOf(v int) int { return c.member[v] }

// IsProper reports whether the clustering is usable for graph reduction:
// either between 2 and n−1 clusters, or a single cluster that neither
// swallows the whole graph nor degenerates to one vertex.
func (c *Clustering) IsProper() bool {
	n := c.g.NumVertices()
	k := len(c.Clusters)
	if k >= 2 && k <= n-1 {
		return true
	}
	return k == 1 && len(c.Clusters[0].Vertices) >= 2 && len(c.Clusters[0].Vertices) <= n-1
}
