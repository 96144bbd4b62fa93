package configresolver

// SectionPrefixes is the explicit prefix iterator DESIGN NOTES asks for in
// place of the nested nil-check loops of the original resolver. It
// enumerates every section prefix the resolver probes for one field, in
// probing order, for sections (pipelineName, sections..., configSection):
//
//   outer-to-inner peel of `sections` with the pipeline name and config
//   section both fixed, ending with the pipeline name dropped too; then the
//   same peel again with the config section left off entirely.
//
// For (p, s1, s2, cfg) this yields exactly:
//
//	(p,s1,s2,cfg), (p,s1,cfg), (p,cfg), (cfg),
//	(p,s1,s2),     (p,s1),     (p),     ()
//
// matching spec.md §8's section-walk testable property.
func SectionPrefixes(pipelineName string, sections []string, configSection string) [][]string {
	var out [][]string
	for _, withCfg := range []bool{true, false} {
		out = append(out, sectionPeel(pipelineName, sections, configSection, withCfg)...)
	}
	return out
}

func sectionPeel(pipelineName string, sections []string, configSection string, withCfg bool) [][]string {
	var out [][]string
	build := func(withPipeline bool, depth int) []string {
		prefix := make([]string, 0, depth+2)
		if withPipeline && pipelineName != "" {
			prefix = append(prefix, pipelineName)
		}
		prefix = append(prefix, sections[:depth]...)
		if withCfg && configSection != "" {
			prefix = append(prefix, configSection)
		}
		return prefix
	}

	for depth := len(sections); depth >= 0; depth-- {
		out = append(out, build(true, depth))
	}
	if pipelineName != "" {
		out = append(out, build(false, 0))
	}
	return out
}
