package asset

// DefaultFloor is the floor loaded when no floor file is given
// Layout characters other than ' ', '.', '@' and 'M' are walls; [legend] maps them to glyphs
const DefaultFloor = `
name = "The Rust Cellar"
placeholder = " "

layout = """
+--------------------------------------+
|......M.........|.....................|
|................|..........M..........|
|.......@........+-------.....---------+
|......................................|
|----------.......|.......M............|
|.................|....................|
|.....M...........|..........----------|
|.................|....................|
+--------------------------------------+
"""

[legend]
"+" = "┼"
"-" = "─"
"|" = "│"
`
