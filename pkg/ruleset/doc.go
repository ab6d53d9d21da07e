// Package ruleset keeps the active classifier and hot-reloads its rule file.
//
// A Manager loads rule tables from a YAML file (or the built-in tables when
// no path is set) and publishes the compiled classifier through an atomic
// pointer. Analyze never blocks on a reload. Reload validates the new file
// completely before swapping; a broken file leaves the previous rules in
// place.
//
//	mgr, err := ruleset.NewManager("rules.yaml", classifier.DefaultWeights(), logger)
//	if err != nil {
//		return err
//	}
//	go mgr.Watch(ctx)
//	analysis := mgr.Analyze(text)
package ruleset
