package yield

// Exact path-dependent TreeSHAP from Lundberg, Erion and Lee,
// "Consistent Individualized Feature Attribution for Tree Ensembles"
// (Algorithm 2). Runs in O(L*D^2) per tree.

type pathElement struct {
	feature int
	zero    float64 // fraction of training paths through this split when the feature is unknown
	one     float64 // 1 if x follows this split, else 0
	weight  float64
}

// shap adds scale times the SHAP values of t at x into phi.
func (t *Tree) shap(x, phi []float64, scale float64) {
	t.recurse(0, x, phi, nil, 1, 1, -1, scale)
}

func (t *Tree) recurse(node int, x, phi []float64, path []pathElement, pz, po float64, pi int, scale float64) {
	path = extendPath(path, pz, po, pi)

	left, right := t.ChildrenLeft[node], t.ChildrenRight[node]
	if left == leaf {
		for i := 1; i < len(path); i++ {
			w := unwoundPathSum(path, i)
			el := path[i]
			phi[el.feature] += scale * w * (el.one - el.zero) * t.Value[node]
		}
		return
	}

	split := t.Feature[node]
	hot, cold := right, left
	if goesLeft(x[split], t.Threshold[node]) {
		hot, cold = left, right
	}

	iz, io := 1.0, 1.0
	for k := 1; k < len(path); k++ {
		if path[k].feature == split {
			iz, io = path[k].zero, path[k].one
			path = unwindPath(path, k)
			break
		}
	}

	cover := t.Cover[node]
	t.recurse(hot, x, phi, path, iz*t.Cover[hot]/cover, io, split, scale)
	t.recurse(cold, x, phi, path, iz*t.Cover[cold]/cover, 0, split, scale)
}

// extendPath returns a copy of path grown by one element. The input is left
// untouched because sibling subtrees share it.
func extendPath(path []pathElement, pz, po float64, pi int) []pathElement {
	l := len(path)
	out := make([]pathElement, l+1)
	copy(out, path)

	w := 0.0
	if l == 0 {
		w = 1
	}
	out[l] = pathElement{feature: pi, zero: pz, one: po, weight: w}

	n := float64(l + 1)
	for i := l - 1; i >= 0; i-- {
		out[i+1].weight += po * out[i].weight * float64(i+1) / n
		out[i].weight = pz * out[i].weight * float64(l-i) / n
	}
	return out
}

// unwindPath returns a copy of path with element i removed and the
// permutation weights restored to what they were before it was added.
func unwindPath(path []pathElement, i int) []pathElement {
	l := len(path)
	one, zero := path[i].one, path[i].zero
	fl := float64(l)

	out := make([]pathElement, l-1)
	copy(out, path[:l-1])

	next := path[l-1].weight
	for j := l - 2; j >= 0; j-- {
		if one != 0 {
			tmp := out[j].weight
			out[j].weight = next * fl / (float64(j+1) * one)
			next = tmp - out[j].weight*zero*float64(l-j-1)/fl
		} else {
			out[j].weight = out[j].weight * fl / (zero * float64(l-j-1))
		}
	}

	for j := i; j < l-1; j++ {
		out[j].feature = path[j+1].feature
		out[j].zero = path[j+1].zero
		out[j].one = path[j+1].one
	}
	return out
}

// unwoundPathSum is the total weight unwindPath(path, i) would leave,
// computed without allocating.
func unwoundPathSum(path []pathElement, i int) float64 {
	l := len(path)
	one, zero := path[i].one, path[i].zero
	fl := float64(l)

	total := 0.0
	next := path[l-1].weight
	for j := l - 2; j >= 0; j-- {
		if one != 0 {
			tmp := next * fl / (float64(j+1) * one)
			total += tmp
			next = path[j].weight - tmp*zero*float64(l-j-1)/fl
		} else {
			total += path[j].weight * fl / (zero * float64(l-j-1))
		}
	}
	return total
}
