// Package cardwatch listens for udev netlink events announcing newly attached
// block partitions, such as a camera's memory card, and hands them to a
// callback so capture files can be queued without a manual scan.
package cardwatch
