// Package export writes history records as JSON, CSV or YAML.
//
//	exporter, err := export.New("csv")
//	if err != nil {
//		return err
//	}
//	return exporter.Export(ctx, records, os.Stdout)
package export
