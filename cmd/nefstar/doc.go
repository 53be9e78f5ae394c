/*
Nefstar translates NMR data between the NMR exchange format (NEF) and
NMR-STAR, the format of the BMRB.

Usage:

	nefstar nef2star input.nef [output.str]
	nefstar star2nef input.str [output.nef]
	nefstar batch [-o outdir] files...
	nefstar watch dir outdir
	nefstar validate files...

Without an output name, the output goes next to the input with its
extension changed. batch and watch work out the direction from each
input. Inputs may be gzipped.

Settings come from the flags, from NEFSTAR_* environment variables
(NEFSTAR_STRICT=true, NEFSTAR_RESCUE_ENABLED=true and so on), from a
.env file and from .nefstar.yaml in the working or home directory.

The exit status is 0 when every file went through, 1 when any failed
and 2 for a usage error.
*/
package main
