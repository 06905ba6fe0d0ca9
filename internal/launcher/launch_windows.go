//go:build windows

package launcher

// activateOrLaunch hands the path to the shell. Applications that are
// single-instance bring their existing window forward themselves.
func activateOrLaunch(appPath string) error {
	return shellExecute("open", appPath)
}

func openFile(filePath string) error {
	return shellExecute("open", filePath)
}
