package searchindex

import "math"

// tfidfIndex is the fallback used when BM25 is unavailable (empty corpus
// at startup, or a deserialization gap), per spec.md §4.3.
type tfidfIndex struct {
	vocab   []string
	docFreq map[string]int
	totalDocs int
	vectors map[string]map[string]float64 // path -> term -> weight
}

func buildTFIDFIndex(docs []Document) *tfidfIndex {
	idx := &tfidfIndex{
		docFreq:   make(map[string]int),
		totalDocs: len(docs),
		vectors:   make(map[string]map[string]float64),
	}

	docTerms := make(map[string]map[string]int, len(docs))
	vocabSet := make(map[string]struct{})
	for _, d := range docs {
		tf := make(map[string]int)
		for _, t := range tokenize(d.Content) {
			tf[t]++
			vocabSet[t] = struct{}{}
		}
		docTerms[d.Path] = tf
		for t := range tf {
			idx.docFreq[t]++
		}
	}

	for t := range vocabSet {
		idx.vocab = append(idx.vocab, t)
	}

	for path, tf := range docTerms {
		vec := make(map[string]float64, len(tf))
		for t, count := range tf {
			vec[t] = float64(count) * idx.idf(t)
		}
		idx.vectors[path] = vec
	}

	return idx
}

func (idx *tfidfIndex) idf(term string) float64 {
	df := float64(idx.docFreq[term])
	n := float64(idx.totalDocs)
	return math.Log((n+1)/(df+1)) + 1
}

func (idx *tfidfIndex) search(query []string, limit int) []Result {
	if idx.totalDocs == 0 {
		return nil
	}

	qtf := make(map[string]int)
	for _, t := range query {
		qtf[t]++
	}
	qvec := make(map[string]float64, len(qtf))
	var qnorm float64
	for t, count := range qtf {
		w := float64(count) * idx.idf(t)
		qvec[t] = w
		qnorm += w * w
	}
	qnorm = math.Sqrt(qnorm)

	scores := make(map[string]float64)
	for path, vec := range idx.vectors {
		scores[path] = cosineSparse(qvec, qnorm, vec)
	}

	return topK(scores, limit)
}

func cosineSparse(qvec map[string]float64, qnorm float64, dvec map[string]float64) float64 {
	if qnorm == 0 {
		return 0
	}
	var dot, dnorm float64
	for t, dw := range dvec {
		dnorm += dw * dw
		if qw, ok := qvec[t]; ok {
			dot += qw * dw
		}
	}
	dnorm = math.Sqrt(dnorm)
	if dnorm == 0 {
		return 0
	}
	return dot / (qnorm * dnorm)
}
