// Package file implements config.DataFetcher for files on disk. It is used for
// the settings file, the registry file and every manifest fragment.
//
//	fetcher, err := file.NewFetcher("layers.yaml")()
//	if err != nil {
//	    return err
//	}
//	data, err := fetcher.Fetch()
package file
