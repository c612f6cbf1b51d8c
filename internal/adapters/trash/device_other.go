//go:build !unix

package trash

// номеров устройств нет, все в домашнюю корзину.
func deviceOf(string) (uint64, bool) {
	return 0, false
}

func volumeTrashName() string {
	return ".Trash"
}
